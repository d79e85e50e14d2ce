// Package main provides the entry point for the fsmstrip CLI.
//
// fsmstrip renders diagnostic reports of finite strip method parametric
// studies: the buckling and free vibration behavior of a prismatic shell
// strip over its length, at a fixed base thickness.
//
// Usage:
//
//	fsmstrip analyze <model-file>
//	fsmstrip batch <model-file>...
//
// See --help for all available options.
package main

// main is the entry point for fsmstrip.
func main() {
	Execute()
}
