package config

import "errors"

// Configuration validation errors.
// These errors are returned by Filter.Validate and Config.Validate and
// provide specific information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances at each validation site. This allows
// callers to use errors.Is() for programmatic error handling while still
// providing human-readable messages.
var (
	// ErrNoModelFile is returned when no model file path is specified.
	ErrNoModelFile = errors.New("no model file specified")

	// ErrInvalidLengthBounds is returned when the strip length clip bounds
	// are contradictory (a_min > a_max). The bounds are validated eagerly
	// so the mistake surfaces as an error instead of an empty dataset.
	ErrInvalidLengthBounds = errors.New("invalid strip length bounds: a_min must not exceed a_max")

	// ErrInvalidThicknessBounds is returned when an explicit base thickness
	// range has t_b_min > t_b_max.
	ErrInvalidThicknessBounds = errors.New("invalid base thickness bounds: t_b_min must not exceed t_b_max")

	// ErrConflictingThicknessFilter is returned when both a fixed base
	// thickness and a thickness range are set. They are mutually exclusive
	// representations of the same intent (point vs. range query).
	ErrConflictingThicknessFilter = errors.New("conflicting thickness filter: fixed value and range cannot be combined")

	// ErrNoThicknessFilter is returned when neither a fixed base thickness
	// nor a thickness range is set. Every report is scoped to one thickness
	// slice of the parametric model, so the filter cannot be empty.
	ErrNoThicknessFilter = errors.New("no thickness filter: a fixed value or a range is required")

	// ErrInvalidConcurrency is returned when the batch concurrency limit
	// is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidSearchBuffer is returned when the thickness search buffer
	// used for the widened retry is not positive.
	ErrInvalidSearchBuffer = errors.New("invalid search buffer: must be positive")
)
