package arrange

import (
	"errors"

	"github.com/mj1618/arrange/internal/layout"
)

var (
	// ErrNoDisplay is returned by operations that need a target display when
	// none is selected.
	ErrNoDisplay = errors.New("no display selected")
	// ErrOutOfRange is returned for preset, display, column or slot indices
	// that do not exist.
	ErrOutOfRange = errors.New("index out of range")
	// ErrInvalidPreset is returned when a preset from outside the engine
	// (rewriter, saved layout, state file) fails validation.
	ErrInvalidPreset = layout.ErrInvalidPreset
	// ErrBusy is returned when a replay or rewrite is already in flight.
	ErrBusy = errors.New("another layout change is in progress")
	// ErrNoAPIKey is returned by Modify when no rewriter credential is set.
	ErrNoAPIKey = errors.New("no API key configured")
	// ErrNotFound is returned for unknown saved layouts.
	ErrNotFound = errors.New("saved layout not found")
	// ErrEmptyInstruction is returned by Modify for a blank instruction.
	ErrEmptyInstruction = errors.New("empty instruction")
)
