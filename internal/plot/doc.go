// Package plot composes the four-panel comparative figure of a strip
// length report: natural frequency, critical buckling stress, dominant
// mode index, and relative approximation errors, each plotted against
// strip length on a shared x-domain.
//
// The layout is a fixed, ordered list of panel specifications. Stacking
// within a panel is controlled by an explicit per-series z-order rather
// than declaration order, which keeps the two overlay invariants
// enforceable: the primary ("direct method") series is never occluded by
// its companions, and marker annotations are drawn above everything.
//
// Rendering uses github.com/wcharczuk/go-chart/v2; each panel becomes one
// PNG raster, composed into a single page by internal/report.
package plot
