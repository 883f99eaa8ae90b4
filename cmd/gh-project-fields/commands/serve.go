package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goblinsan/gh-project-fields/pkg/fields"
	"github.com/goblinsan/gh-project-fields/pkg/types"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

// JSON-RPC 2.0 types for MCP protocol
type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MCP protocol types
type mcpInitializeResult struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Capabilities    mcpCapabilities `json:"capabilities"`
	ServerInfo      mcpServerInfo   `json:"serverInfo"`
}

type mcpCapabilities struct {
	Tools *struct{} `json:"tools,omitempty"`
}

type mcpServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type mcpToolsListResult struct {
	Tools []mcpToolDef `json:"tools"`
}

type mcpToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type mcpToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type mcpToolCallResult struct {
	Content []mcpContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

type mcpContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

var setFieldToolSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "project_number": {"type": "integer", "description": "Project number within the owner's namespace"},
    "owner": {"type": "string", "description": "Organization login, or user login followed by a slash for user projects"},
    "item_id": {"type": "string", "description": "Project item node ID"},
    "field_name": {"type": "string", "description": "Field name, matched exactly"},
    "value": {"type": "string", "description": "Value to set: text, number, YYYY-MM-DD date, option name, or iteration title"},
    "dry_run": {"type": "boolean", "description": "Preview without issuing the mutation"}
  },
  "required": ["project_number", "owner", "item_id", "field_name", "value"]
}`)

var bulkUpdateToolSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "project_number": {"type": "integer", "description": "Project number within the owner's namespace"},
    "owner": {"type": "string", "description": "Organization login, or user login followed by a slash for user projects"},
    "rows": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "item_id": {"type": "string"},
          "field_name": {"type": "string"},
          "value": {"type": "string"}
        },
        "required": ["item_id", "field_name", "value"]
      }
    },
    "dry_run": {"type": "boolean", "description": "Preview without issuing any mutation"}
  },
  "required": ["project_number", "owner", "rows"]
}`)

func handleMCPRequest(req jsonRPCRequest) jsonRPCResponse {
	switch req.Method {
	case "initialize":
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpInitializeResult{
				ProtocolVersion: "2024-11-05",
				Capabilities:    mcpCapabilities{Tools: &struct{}{}},
				ServerInfo:      mcpServerInfo{Name: "gh-project-fields", Version: Version},
			},
		}

	case "notifications/initialized":
		// Client acknowledgment, no response needed (notification, no ID)
		return jsonRPCResponse{}

	case "tools/list":
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpToolsListResult{
				Tools: []mcpToolDef{
					{
						Name:        "set_field",
						Description: "Set a typed field value (text, number, date, single-select, iteration) on a GitHub Projects V2 item. Field and option names are resolved to IDs automatically.",
						InputSchema: setFieldToolSchema,
					},
					{
						Name:        "bulk_update",
						Description: "Apply a batch of field updates to a GitHub Projects V2 board. Rows are processed in order; a failed row is reported but never aborts the batch.",
						InputSchema: bulkUpdateToolSchema,
					},
				},
			},
		}

	case "tools/call":
		return handleToolCall(req)

	default:
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &jsonRPCError{Code: -32601, Message: fmt.Sprintf("method not found: %s", req.Method)},
		}
	}
}

type setFieldArgs struct {
	ProjectNumber int    `json:"project_number"`
	Owner         string `json:"owner"`
	ItemID        string `json:"item_id"`
	FieldName     string `json:"field_name"`
	Value         string `json:"value"`
	DryRun        bool   `json:"dry_run"`
}

type bulkUpdateArgs struct {
	ProjectNumber int    `json:"project_number"`
	Owner         string `json:"owner"`
	Rows          []struct {
		ItemID    string `json:"item_id"`
		FieldName string `json:"field_name"`
		Value     string `json:"value"`
	} `json:"rows"`
	DryRun bool `json:"dry_run"`
}

func handleToolCall(req jsonRPCRequest) jsonRPCResponse {
	var params mcpToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &jsonRPCError{Code: -32602, Message: fmt.Sprintf("invalid params: %v", err)},
		}
	}

	switch params.Name {
	case "set_field":
		return callSetField(req.ID, params.Arguments)
	case "bulk_update":
		return callBulkUpdate(req.ID, params.Arguments)
	default:
		return jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpToolCallResult{
				Content: []mcpContent{{Type: "text", Text: fmt.Sprintf("unknown tool: %s", params.Name)}},
				IsError: true,
			},
		}
	}
}

func toolError(id json.RawMessage, format string, args ...interface{}) jsonRPCResponse {
	return jsonRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: mcpToolCallResult{
			Content: []mcpContent{{Type: "text", Text: fmt.Sprintf(format, args...)}},
			IsError: true,
		},
	}
}

func toolText(id json.RawMessage, text string) jsonRPCResponse {
	return jsonRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: mcpToolCallResult{
			Content: []mcpContent{{Type: "text", Text: text}},
		},
	}
}

func callSetField(id json.RawMessage, arguments json.RawMessage) jsonRPCResponse {
	var args setFieldArgs
	if err := json.Unmarshal(arguments, &args); err != nil {
		return toolError(id, "failed to parse arguments: %v", err)
	}

	if args.DryRun {
		return toolText(id, fmt.Sprintf("[dry-run] Would set field %q to %q for item %s", args.FieldName, args.Value, args.ItemID))
	}

	client, err := newClient()
	if err != nil {
		return toolError(id, "failed to create github client: %v", err)
	}

	ctx := context.Background()
	resolver := fields.NewResolver(client)
	mutator := fields.NewMutator(client)

	projectID, err := resolver.ResolveProject(ctx, args.Owner, args.ProjectNumber)
	if err != nil {
		return toolError(id, "failed to resolve project: %v", err)
	}
	field, err := resolver.ResolveField(ctx, projectID, args.FieldName)
	if err != nil {
		return toolError(id, "failed to resolve field: %v", err)
	}
	if err := mutator.SetField(ctx, projectID, args.ItemID, field, args.Value); err != nil {
		return toolError(id, "failed to update field: %v", err)
	}

	return toolText(id, fmt.Sprintf("Updated field %q to %q for item %s", args.FieldName, args.Value, args.ItemID))
}

func callBulkUpdate(id json.RawMessage, arguments json.RawMessage) jsonRPCResponse {
	var args bulkUpdateArgs
	if err := json.Unmarshal(arguments, &args); err != nil {
		return toolError(id, "failed to parse arguments: %v", err)
	}

	client, err := newClient()
	if err != nil {
		return toolError(id, "failed to create github client: %v", err)
	}

	ctx := context.Background()
	resolver := fields.NewResolver(client)
	mutator := fields.NewMutator(client)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	processor := fields.NewProcessor(resolver, mutator, logger)

	projectID := ""
	if !args.DryRun {
		projectID, err = resolver.ResolveProject(ctx, args.Owner, args.ProjectNumber)
		if err != nil {
			return toolError(id, "failed to resolve project: %v", err)
		}
	}

	rows := make([]types.BulkRow, 0, len(args.Rows))
	for i, row := range args.Rows {
		rows = append(rows, types.BulkRow{
			Line:      i + 1,
			ItemID:    row.ItemID,
			FieldName: row.FieldName,
			Value:     row.Value,
		})
	}

	report := processor.ProcessBatch(ctx, projectID, rows, fields.BatchOptions{DryRun: args.DryRun})
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return toolError(id, "failed to encode report: %v", err)
	}
	return toolText(id, string(reportJSON))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long:  `Run the MCP server to allow AI agents (Claude, Gemini, etc.) to interact with the tool via the Model Context Protocol over stdin/stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := bufio.NewScanner(os.Stdin)
		// Batch payloads can be large; allow up to 1 MB lines
		scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
		encoder := json.NewEncoder(os.Stdout)

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var req jsonRPCRequest
			if err := json.Unmarshal(line, &req); err != nil {
				resp := jsonRPCResponse{
					JSONRPC: "2.0",
					Error:   &jsonRPCError{Code: -32700, Message: fmt.Sprintf("parse error: %v", err)},
				}
				encoder.Encode(resp)
				continue
			}

			resp := handleMCPRequest(req)
			// Notifications (no ID) don't get a response
			if resp.JSONRPC == "" {
				continue
			}
			encoder.Encode(resp)
		}

		return scanner.Err()
	},
}
