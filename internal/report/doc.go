// Package report finalizes composed figures into output artifacts.
//
// The primary artifact is the single-page PDF report: the four rendered
// panels in a 2x2 grid under a page-level caption. An optional Markdown
// companion summarizes the resolved dataset in text form for embedding in
// documentation or review threads.
//
// Writers are small and stateless; the orchestrator owns artifact paths
// and lifecycle.
package report
