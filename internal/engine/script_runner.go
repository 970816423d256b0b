package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/datawizard/backend/internal/logger"
)

// ScriptRunner runs the Python engine as a child process:
//
//	<python> <script> <input|none> <output.txt> <prompt> <format> <mode>
type ScriptRunner struct {
	PythonPath string
	ScriptPath string
}

var _ Engine = (*ScriptRunner)(nil)

func NewScriptRunner(pythonPath, scriptPath string) *ScriptRunner {
	return &ScriptRunner{PythonPath: pythonPath, ScriptPath: scriptPath}
}

// Process waits for the script to exit. A non-zero exit is not an error
// here; success is decided by the marker on stdout.
func (r *ScriptRunner) Process(ctx context.Context, inv Invocation) (*Result, error) {
	cmd := exec.CommandContext(ctx, r.PythonPath,
		r.ScriptPath,
		inv.InputPath,
		inv.OutputTextPath,
		inv.Prompt,
		string(inv.OutputFormat),
		string(inv.Mode),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Starting engine script", map[string]interface{}{
		"script": r.ScriptPath,
		"mode":   inv.Mode,
		"format": inv.OutputFormat,
	})

	err := cmd.Run()
	result := &Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("run engine script %s: %w", r.ScriptPath, err)
	}
	return result, nil
}
