package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidRequest wraps every JobRequest validation failure.
var ErrInvalidRequest = errors.New("invalid job request")

// InputNone is the input reference used by prompt-only jobs.
const InputNone = "none"

// OutputFormatKind is the wire value of an output format.
type OutputFormatKind string

const (
	FormatExcel OutputFormatKind = "excel"
	FormatWord  OutputFormatKind = "word"
	FormatText  OutputFormatKind = "txt"
)

// CatalogName returns the name the format is stored under in output_formats.
func (f OutputFormatKind) CatalogName() string {
	switch f {
	case FormatWord:
		return "Word"
	case FormatText:
		return "Text"
	default:
		return "Excel"
	}
}

func (f OutputFormatKind) Valid() bool {
	switch f {
	case FormatExcel, FormatWord, FormatText:
		return true
	}
	return false
}

// ProcessMode is how the engine obtains its input.
type ProcessMode string

const (
	ModeFileToFile   ProcessMode = "file"
	ModeOcrToFile    ProcessMode = "ocr"
	ModePromptToFile ProcessMode = "prompt-only"
)

func (m ProcessMode) Valid() bool {
	switch m {
	case ModeFileToFile, ModeOcrToFile, ModePromptToFile:
		return true
	}
	return false
}

// JobRequest is the input of one job. Build it with NewJobRequest.
type JobRequest struct {
	UserID       int64            `json:"userId"`
	InputRef     string           `json:"inputRef"`
	Prompt       string           `json:"prompt"`
	OutputFormat OutputFormatKind `json:"outputFormat"`
	Mode         ProcessMode      `json:"mode"`
}

// NewJobRequest normalizes and validates the raw values of a job request.
// Prompt-only jobs always use InputNone as their input reference.
func NewJobRequest(userID int64, inputRef, prompt, outputFormat, mode string) (JobRequest, error) {
	req := JobRequest{
		UserID:       userID,
		InputRef:     strings.TrimSpace(inputRef),
		Prompt:       strings.TrimSpace(prompt),
		OutputFormat: OutputFormatKind(strings.ToLower(strings.TrimSpace(outputFormat))),
		Mode:         ProcessMode(strings.ToLower(strings.TrimSpace(mode))),
	}
	if req.Mode == ModePromptToFile || (req.InputRef == "" && req.Mode == "") {
		req.InputRef = InputNone
	}
	if req.Mode == "" {
		if req.InputRef == InputNone {
			req.Mode = ModePromptToFile
		} else {
			req.Mode = ModeFileToFile
		}
	}
	if req.OutputFormat == "" {
		req.OutputFormat = FormatText
	}
	return req, req.Validate()
}

// Validate checks the invariants every job request must hold.
func (r JobRequest) Validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	if r.Prompt == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalidRequest)
	}
	if !r.OutputFormat.Valid() {
		return fmt.Errorf("%w: unsupported output format %q", ErrInvalidRequest, r.OutputFormat)
	}
	if !r.Mode.Valid() {
		return fmt.Errorf("%w: unsupported mode %q", ErrInvalidRequest, r.Mode)
	}
	if r.Mode != ModePromptToFile && (r.InputRef == "" || r.InputRef == InputNone) {
		return fmt.Errorf("%w: mode %q needs an input file", ErrInvalidRequest, r.Mode)
	}
	return nil
}

// PromptOnly reports whether the job runs without an input file.
func (r JobRequest) PromptOnly() bool {
	return r.InputRef == InputNone
}

// InputFileTypeName is the catalog name of the input kind: PROMPT for
// prompt-only jobs, otherwise the upper-cased file extension.
func (r JobRequest) InputFileTypeName() string {
	if r.PromptOnly() {
		return FileTypePrompt
	}
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(r.InputRef), "."))
}
