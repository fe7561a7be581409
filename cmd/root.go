package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/enzocage/Notion-Mediator/internal/config"
	"github.com/enzocage/Notion-Mediator/internal/logging"
)

var (
	debugMode bool
	envFile   string
)

// rootCmd represents the base command for the mediator application
var rootCmd = &cobra.Command{
	Use:   "mediator",
	Short: "Edits Notion pages and Google Docs from natural-language requests",
	Long: `mediator turns a free-form request such as "summarize page 1 into page 2"
into a bounded sequence of document reads and writes planned by an LLM.

It can run as:
  - An HTTP chat API (default)
  - An interactive or one-shot CLI chat
  - An MCP (Model Context Protocol) server exposing the document tools`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(logging.New(os.Stderr, debugMode))
	},
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mediator version %s\n" .Version}}`)

	// If no subcommand is provided, run the chat API by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Dotenv file read before the process environment")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newVersionCmd())
}
