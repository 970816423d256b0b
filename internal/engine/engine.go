// Package engine is the boundary to the external document-processing script.
package engine

import (
	"context"
	"strings"

	"github.com/datawizard/backend/internal/models"
)

// SuccessMarker is printed on stdout by the script when it finished.
const SuccessMarker = "OK"

// Invocation is one call of the external engine.
type Invocation struct {
	InputPath      string // file path, or models.InputNone
	OutputTextPath string
	Prompt         string
	OutputFormat   models.OutputFormatKind
	Mode           models.ProcessMode
}

// Result is what the engine printed.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Succeeded reports whether stdout carries the success marker.
func (r *Result) Succeeded() bool {
	return r != nil && strings.Contains(r.Stdout, SuccessMarker)
}

// Engine runs one job. An error means the engine could not be run at all;
// a run that reports failure returns a Result without the success marker.
type Engine interface {
	Process(ctx context.Context, inv Invocation) (*Result, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, inv Invocation) (*Result, error)

func (f EngineFunc) Process(ctx context.Context, inv Invocation) (*Result, error) {
	return f(ctx, inv)
}

// ParsedExcelPath is where the script writes the spreadsheet parsed from
// the text output.
func ParsedExcelPath(outputTextPath string) string {
	return replaceTextSuffix(outputTextPath, "_parsed.xlsx")
}

// WordDocumentPath is where the script writes the Word rendering.
func WordDocumentPath(outputTextPath string) string {
	return replaceTextSuffix(outputTextPath, "_output.docx")
}

// ArtifactPath returns the file a job with the given format is expected to
// produce, or "" when the format produces no artifact besides the text.
func ArtifactPath(outputTextPath string, format models.OutputFormatKind) string {
	switch format {
	case models.FormatExcel:
		return ParsedExcelPath(outputTextPath)
	case models.FormatWord:
		return WordDocumentPath(outputTextPath)
	default:
		return ""
	}
}

func replaceTextSuffix(path, suffix string) string {
	if strings.HasSuffix(path, ".txt") {
		return strings.TrimSuffix(path, ".txt") + suffix
	}
	return path + suffix
}
