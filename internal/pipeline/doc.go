// Package pipeline orchestrates one report generation: resolve the
// dataset, detect mode transitions, compose the four-panel figure, and
// emit the output artifacts.
//
// The orchestration is a sequence of steps sharing an Analysis value.
// Steps execute in order and the pipeline stops on the first error; a
// half-resolved analysis never reaches the composer, and a failed
// composition never reaches the emitter. Plotting state is released on
// every path, success or failure, so repeated invocations in a long-lived
// process do not accumulate page buffers.
//
// BatchProcessor runs several independent analyses concurrently, one
// pipeline per model file.
package pipeline
