// SPDX-License-Identifier: Apache-2.0

// Package chem adapts external chemistry toolkits to metadata.Converter.
package chem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoOutput is returned when the toolkit produced nothing for the input.
var ErrNoOutput = errors.New("no structure converted")

// OpenBabel converts structures by running the obabel command line tool.
type OpenBabel struct {
	path    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewOpenBabel creates a converter running the obabel binary at path. A
// timeout of zero means no limit beyond the caller's context.
func NewOpenBabel(path string, timeout time.Duration, logger *zap.Logger) *OpenBabel {
	if path == "" {
		path = "obabel"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenBabel{path: path, timeout: timeout, logger: logger}
}

// Available reports whether the obabel binary can be found.
func (o *OpenBabel) Available() bool {
	_, err := exec.LookPath(o.path)
	return err == nil
}

// Convert runs `obabel -:<text> -i<from> -o<to>` and returns the first line
// written to stdout.
func (o *OpenBabel) Convert(ctx context.Context, text, from, to string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, o.path, "-:"+text, "-i"+from, "-o"+to)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("obabel failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	line, _, _ := strings.Cut(strings.TrimSpace(stdout.String()), "\n")
	if line == "" {
		o.logger.Debug("obabel produced no output", zap.String("input", text), zap.String("stderr", stderr.String()))
		return "", fmt.Errorf("%w: %s", ErrNoOutput, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(line), nil
}
