package presentation

import "errors"

var (
	// ErrNoResults is returned when a render is requested but no orientation fits.
	ErrNoResults = errors.New("no feasible packing for the current inputs")
	// ErrSelectionOutOfRange is returned when the selected index does not name a ranked result.
	ErrSelectionOutOfRange = errors.New("selection is outside the ranked results")
	// ErrUnknownRenderer is returned when no renderer is registered for the requested kind.
	ErrUnknownRenderer = errors.New("unknown renderer")
	// ErrRenderFailed wraps faults raised by a renderer.
	ErrRenderFailed = errors.New("render failed")
)
