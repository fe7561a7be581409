package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/enzocage/Notion-Mediator/internal/backend"
	"github.com/enzocage/Notion-Mediator/internal/tools"
)

func newToolsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool reference",
		Long: `Print markdown documentation for the tools of every configured mode, in the
order the planner sees them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := newApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				a.close(closeCtx)
			}()

			if outputFile == "" {
				return writeToolsReference(cmd.OutOrStdout(), a.resolver)
			}

			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			if err := writeToolsReference(f, a.resolver); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Tool reference written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

var modeTitles = map[backend.Kind]string{
	backend.KindNotion: "Notion",
	backend.KindGoogle: "Google Docs",
}

// writeToolsReference renders one section per mode with the tools in
// catalog order.
func writeToolsReference(w io.Writer, resolver *tools.Resolver) error {
	var sb strings.Builder

	sb.WriteString("# Tools Reference\n\n")
	sb.WriteString("Tools available to the planner and to MCP clients for the configured documents.\n\n")

	modes := resolver.Modes()
	for _, mode := range modes {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", modeTitles[mode], anchor(modeTitles[mode]))
	}
	sb.WriteString("\n")

	for _, mode := range modes {
		reg, err := resolver.Resolve(string(mode))
		if err != nil {
			return err
		}
		fmt.Fprintf(&sb, "## %s\n\n", modeTitles[mode])
		fmt.Fprintf(&sb, "Mode `%s`.\n\n", mode)
		for _, d := range reg.Tools() {
			writeToolSection(&sb, d)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeToolSection(sb *strings.Builder, d tools.Descriptor) {
	fmt.Fprintf(sb, "### %s\n\n%s\n\n", d.Name, d.Description)

	switch d.Arity {
	case tools.ArityRead:
		sb.WriteString("*Read-only.*\n\n")
	case tools.ArityUpdate:
		sb.WriteString("*Replaces existing content.*\n\n")
	}

	if len(d.Params) == 0 {
		sb.WriteString("**Arguments:** none\n\n")
		return
	}
	sb.WriteString("**Arguments:**\n")
	for _, p := range d.Params {
		fmt.Fprintf(sb, "- `%s` (%s): %s\n", p.Name, p.Type, p.Description)
	}
	if d.Arity == tools.ArityUpdate {
		fmt.Fprintf(sb, "\nMCP clients pass `%s` as `locator`.\n", tools.LocatorKey(d.Kind()))
	}
	sb.WriteString("\n")
}

func anchor(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}
