// Package model defines the in-memory data model shared across fsmstrip:
// the resolved modal composites dataset, the column metadata that
// accompanies it, and the marker set annotated onto the report.
//
// A ModalComposites value is an ordered table keyed by strip length. It is
// produced by the database loader, filtered by the resolver, scanned by the
// transition detector, and plotted by the composer. The types here carry no
// behavior beyond accessors and invariant checks; all decision logic lives
// in the packages that consume them.
package model
