package main

import (
	"github.com/enzocage/Notion-Mediator/cmd"
)

// version will be set by the release build
var version = "dev"

func main() {
	// Set the version from build-time variable
	cmd.SetVersion(version)

	// Execute the root command
	cmd.Execute()
}
