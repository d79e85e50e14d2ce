// Package config holds the configuration model for fsmstrip.
//
// It provides:
//   - Config: the flat options struct populated from CLI flags and passed
//     through the application via dependency injection rather than global
//     state
//   - Filter: the strip-length / base-thickness dataset filter, including
//     eager validation and the point-to-range thickness translation used
//     by the resolver's widened retry
//   - PlotStyle: the explicit plot styling value threaded into the plot
//     composer, optionally loaded from a YAML file under the XDG config
//     home
//
// All validation errors are package-level sentinels so callers can use
// errors.Is for programmatic handling.
package config
