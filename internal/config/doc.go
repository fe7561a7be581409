// Package config loads the mediator configuration.
//
// Values come, in increasing order of precedence, from built-in defaults,
// an optional .env file, the process environment, and command-line flags.
// A backend whose credentials or document IDs are missing is left
// unconfigured rather than treated as an error.
package config
