package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/datawizard/backend/internal/logger"
	"github.com/datawizard/backend/internal/models"
	"github.com/datawizard/backend/internal/store"
)

// ErrFallbackMissing means the catalog lacks the OTHER file type, which every
// unknown name falls back to. It is a configuration error.
var ErrFallbackMissing = errors.New("reference catalog has no OTHER file type")

// ReferenceResolver maps category names to catalog ids with a one-step
// fallback: file types fall back to OTHER, output formats to the Excel id.
// Store failures take the same path as a miss.
type ReferenceResolver struct {
	catalog store.Catalog
}

func NewReferenceResolver(catalog store.Catalog) *ReferenceResolver {
	return &ReferenceResolver{catalog: catalog}
}

// Resolve dispatches on category. Output formats never return an error.
func (r *ReferenceResolver) Resolve(ctx context.Context, category models.Category, name string) (int, error) {
	switch category {
	case models.CategoryFileType:
		return r.FileTypeID(ctx, name)
	case models.CategoryOutputFormat:
		return r.OutputFormatID(ctx, name), nil
	default:
		return 0, fmt.Errorf("unknown reference category %q", category)
	}
}

// FileTypeID performs at most two lookups: name, then OTHER.
func (r *ReferenceResolver) FileTypeID(ctx context.Context, name string) (int, error) {
	id, err := r.catalog.FileTypeID(ctx, name)
	if err == nil {
		return id, nil
	}
	logFallback(models.CategoryFileType, name, err)

	if errors.Is(err, store.ErrNotFound) && strings.EqualFold(strings.TrimSpace(name), models.FileTypeOther) {
		return 0, r.misconfigured()
	}

	id, err = r.catalog.FileTypeID(ctx, models.FileTypeOther)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, store.ErrNotFound):
		return 0, r.misconfigured()
	default:
		return 0, fmt.Errorf("resolve fallback file type: %w", err)
	}
}

// OutputFormatID returns DefaultOutputFormatID when name cannot be resolved.
func (r *ReferenceResolver) OutputFormatID(ctx context.Context, name string) int {
	id, err := r.catalog.OutputFormatID(ctx, name)
	if err != nil {
		logFallback(models.CategoryOutputFormat, name, err)
		return models.DefaultOutputFormatID
	}
	return id
}

func (r *ReferenceResolver) misconfigured() error {
	logger.Error("Reference catalog misconfigured", map[string]interface{}{
		"component": "reference_resolver",
		"missing":   models.FileTypeOther,
	})
	return ErrFallbackMissing
}

func logFallback(category models.Category, name string, err error) {
	fields := map[string]interface{}{
		"component": "reference_resolver",
		"category":  category,
		"name":      name,
	}
	if errors.Is(err, store.ErrNotFound) {
		logger.Debug("Reference name not found, using fallback", fields)
		return
	}
	fields["error"] = err.Error()
	logger.Warn("Reference catalog unavailable, using fallback", fields)
}
