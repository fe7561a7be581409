// Package tools binds document backends to the named tools the planner can
// call.
//
// Each configured document alias N yields three tools, one per arity:
//
//	notion: read_page_N  write_page_N  update_block_page_N
//	google: read_doc_N   write_doc_N   update_doc_N
//
// A Registry holds the tools of one mode and is immutable once built. A
// Resolver selects the registry for a mode name. Tool calls are traced,
// counted, and audited when they modify a document.
package tools
