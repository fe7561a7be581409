// Package backend defines the capability contract shared by the document
// stores the mediator can edit: read a document, append formatted text to
// it, and replace one addressable part of it.
//
// A Locator addresses that part. For block stores it is an opaque block ID;
// for indexed-paragraph stores it is a zero-based paragraph index. A locator
// is only meaningful against the snapshot it was read from.
package backend
