package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matiasleandrokruk/zephyrtools/internal/ctxkeys"
	"github.com/matiasleandrokruk/zephyrtools/internal/domain/operation"
)

// ServerName is advertised to MCP clients during initialization.
const ServerName = "zephyr-tools"

// NewMCPServer exposes every operation of the dispatcher's registry as an
// MCP tool. Dispatch errors become tool results with IsError set, so the
// agent always receives text it can act on.
func NewMCPServer(d *operation.Dispatcher, version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	for _, op := range d.Registry().List() {
		srv.AddTool(&mcp.Tool{
			Name:        op.Name(),
			Description: op.Description(),
			InputSchema: op.Schema().JSONSchema(),
		}, toolHandler(d, op.Name()))
	}
	return srv
}

// ServeStdio runs srv over stdin/stdout until the client disconnects or ctx ends.
func ServeStdio(ctx context.Context, srv *mcp.Server) error {
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// NewStreamableHandler serves srv over MCP streamable HTTP.
func NewStreamableHandler(srv *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return srv }, nil)
}

func toolHandler(d *operation.Dispatcher, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := decodeArguments(req.Params.Arguments)
		if err != nil {
			return errorResult(err, nil), nil
		}

		if subject := subjectOf(ctx, req); subject != "" {
			ctx = ctxkeys.WithValue(ctx, ctxkeys.Subject, subject)
		}

		res, err := d.Dispatch(ctx, name, raw)
		if err != nil {
			return errorResult(err, res), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: res.Text}},
		}, nil
	}
}

// subjectOf prefers a subject already on ctx and falls back to the header
// BearerAuth set on the HTTP request that carried this call.
func subjectOf(ctx context.Context, req *mcp.CallToolRequest) string {
	if subject := ctxkeys.Value(ctx, ctxkeys.Subject); subject != "" {
		return subject
	}
	if req == nil || req.Extra == nil || req.Extra.Header == nil {
		return ""
	}
	return req.Extra.Header.Get(SubjectHeader)
}

func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("%w: arguments must be a JSON object: %v", operation.ErrInvalidParameters, err)
	}
	return args, nil
}

// errorResult reports err, followed by any partial text the dispatcher
// produced (a generation failure still carries the content preview).
func errorResult(err error, res *operation.Result) *mcp.CallToolResult {
	content := []mcp.Content{&mcp.TextContent{Text: err.Error()}}
	if res != nil && res.Text != "" {
		content = append(content, &mcp.TextContent{Text: res.Text})
	}
	return &mcp.CallToolResult{Content: content, IsError: true}
}
