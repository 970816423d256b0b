package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/datawizard/backend/internal/engine"
	"github.com/datawizard/backend/internal/models"
	"github.com/datawizard/backend/internal/store"
	"github.com/datawizard/backend/internal/store/storetest"
)

var errUnavailable = errors.New("connection refused")

// unavailableStore fails every call, like a database that is down.
type unavailableStore struct{}

var _ store.Store = unavailableStore{}

func (unavailableStore) FileTypeID(context.Context, string) (int, error) { return 0, errUnavailable }
func (unavailableStore) OutputFormatID(context.Context, string) (int, error) {
	return 0, errUnavailable
}
func (unavailableStore) CreateHistory(context.Context, *models.History) error { return errUnavailable }
func (unavailableStore) FinalizeHistory(context.Context, int64, bool, int64) (bool, error) {
	return false, errUnavailable
}
func (unavailableStore) GetHistory(context.Context, int64) (*models.History, error) {
	return nil, errUnavailable
}
func (unavailableStore) RecentHistory(context.Context, int64, int) ([]models.History, error) {
	return nil, errUnavailable
}
func (unavailableStore) FileTypeStats(context.Context, int64) ([]models.FileTypeStat, error) {
	return nil, errUnavailable
}
func (unavailableStore) GetPreference(context.Context, int64) (*models.OutputFormatPreference, error) {
	return nil, errUnavailable
}
func (unavailableStore) UpsertPreference(context.Context, *models.OutputFormatPreference) error {
	return errUnavailable
}
func (unavailableStore) CreateOutputFile(context.Context, *models.OutputFile) error {
	return errUnavailable
}
func (unavailableStore) OutputFilesForHistory(context.Context, int64) ([]models.OutputFile, error) {
	return nil, errUnavailable
}
func (unavailableStore) RecentFiles(context.Context, int64, int) ([]models.OutputFile, error) {
	return nil, errUnavailable
}
func (unavailableStore) Ping(context.Context) error { return errUnavailable }

// countingStore wraps a real store and counts the write calls.
type countingStore struct {
	*store.GormStore
	creates   atomic.Int32
	finalizes atomic.Int32
	artifacts atomic.Int32
}

func (c *countingStore) CreateHistory(ctx context.Context, h *models.History) error {
	c.creates.Add(1)
	return c.GormStore.CreateHistory(ctx, h)
}

func (c *countingStore) FinalizeHistory(ctx context.Context, id int64, success bool, ms int64) (bool, error) {
	c.finalizes.Add(1)
	return c.GormStore.FinalizeHistory(ctx, id, success, ms)
}

func (c *countingStore) CreateOutputFile(ctx context.Context, f *models.OutputFile) error {
	c.artifacts.Add(1)
	return c.GormStore.CreateOutputFile(ctx, f)
}

// fakeCatalog answers from a map and counts lookups.
type fakeCatalog struct {
	mu        sync.Mutex
	fileTypes map[string]int
	formats   map[string]int
	err       error
	lookups   []string
}

func (f *fakeCatalog) FileTypeID(_ context.Context, name string) (int, error) {
	return f.lookup(f.fileTypes, name)
}

func (f *fakeCatalog) OutputFormatID(_ context.Context, name string) (int, error) {
	return f.lookup(f.formats, name)
}

func (f *fakeCatalog) lookup(m map[string]int, name string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, name)
	if f.err != nil {
		return 0, f.err
	}
	id, ok := m[name]
	if !ok {
		return 0, store.ErrNotFound
	}
	return id, nil
}

func newOrchestrator(st store.Store, eng engine.Engine, outputDir string) *JobOrchestrator {
	prefs := NewPreferenceStore(st)
	return NewJobOrchestrator(
		NewReferenceResolver(st),
		prefs,
		NewJobRecorder(st),
		NewArtifactRegistrar(st),
		eng,
		outputDir,
	)
}

// scriptedEngine behaves like the processing script: it writes the text
// output and, for excel and word, the artifact next to it.
func scriptedEngine(text string, writeArtifact bool) engine.Engine {
	return engine.EngineFunc(func(_ context.Context, inv engine.Invocation) (*engine.Result, error) {
		if err := os.WriteFile(inv.OutputTextPath, []byte(text), 0644); err != nil {
			return nil, err
		}
		if writeArtifact {
			if artifact := engine.ArtifactPath(inv.OutputTextPath, inv.OutputFormat); artifact != "" {
				if err := os.WriteFile(artifact, []byte("binary"), 0644); err != nil {
					return nil, err
				}
			}
		}
		return &engine.Result{Stdout: "processing\n" + engine.SuccessMarker + "\n"}, nil
	})
}

func newCountingStore(t *testing.T) *countingStore {
	return &countingStore{GormStore: storetest.NewStore(t)}
}

func tempOutputDir(t *testing.T) string {
	return filepath.Join(t.TempDir(), "outputs")
}
