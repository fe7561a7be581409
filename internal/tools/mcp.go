package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools exposes every tool of every configured mode on s.
// Update tools take the generic "locator" argument.
func RegisterMCPTools(s *mcpserver.MCPServer, resolver *Resolver) error {
	for _, mode := range resolver.Modes() {
		reg, err := resolver.Resolve(string(mode))
		if err != nil {
			return err
		}
		for _, d := range reg.Tools() {
			s.AddTool(mcpTool(d), mcpHandler(reg, d.Name))
		}
	}
	return nil
}

func mcpTool(d Descriptor) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(d.Description),
	}

	switch d.Arity {
	case ArityRead:
		opts = append(opts, mcp.WithReadOnlyHintAnnotation(true))
	case ArityAppend:
		opts = append(opts,
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("The text to append"),
			),
			mcp.WithDestructiveHintAnnotation(false),
		)
	case ArityUpdate:
		opts = append(opts,
			mcp.WithString("locator",
				mcp.Required(),
				mcp.Description(fmt.Sprintf("The %s of the part to replace", LocatorKey(d.Kind()))),
			),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("The replacement text"),
			),
			mcp.WithDestructiveHintAnnotation(true),
		)
	}

	return mcp.NewTool(d.Name, opts...)
}

func mcpHandler(reg *Registry, name string) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := json.Marshal(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		out, err := reg.Invoke(ctx, name, raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to run %s: %v", name, err)), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}
