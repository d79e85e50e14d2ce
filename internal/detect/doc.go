// Package detect finds structurally significant points in a resolved
// modal composites dataset: the strip lengths at which the dominant mode
// index changes between adjacent samples. These transitions drive the
// automatic marker annotations of the report.
package detect
