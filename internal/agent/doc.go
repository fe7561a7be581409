// Package agent implements the planner loop that turns a user request into
// a sequence of document tool calls.
//
// Each round the model receives the pending text and replies with a JSON
// plan of the form
//
//	{"tool": "read_page_1" | null, "args": ..., "response": "..."}
//
// A plan naming a tool runs it and feeds the output back as the next turn.
// A plan without a tool ends the run with its response, and a reply that is
// not JSON ends the run with the reply itself. Runs stop after MaxRounds
// model calls.
//
// Failures never escape Run: unknown tools and tool errors are reported to
// the model so that it can correct itself, and model transport errors end
// the run with an apology.
package agent
