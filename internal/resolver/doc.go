// Package resolver turns a dataset filter into a resolved modal
// composites dataset, applying the single fallback allowed by the tool:
// when an exact-thickness query matches no rows, the query is widened to
// a tiny thickness range and issued once more.
//
// The widening exists because the requested base thickness is typed by a
// human while the stored column was computed; the two can disagree in the
// last bits of the float representation. The buffer is therefore tiny
// (1e-10 by default) and the retry happens at most once.
package resolver
