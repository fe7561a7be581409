// Package cmd implements the command-line interface for mediator.
//
// This package provides the following commands:
//   - serve: Start the HTTP chat API and the metrics server
//   - chat: Run one request, or an interactive session, against the planner
//   - mcp: Expose the document tools as an MCP server
//   - tools: Print a markdown reference of the configured tools
//   - doctor: Check configuration, credentials and model access
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
