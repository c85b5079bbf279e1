// Package mcptools exposes the relay as MCP tools.
package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"vet-chatter/internal/relay"
)

const (
	ToolDiagnose = "diagnose_droppings"
	ToolClear    = "clear_conversation"
)

type Tools struct {
	relay *relay.Service
}

func New(svc *relay.Service) *Tools {
	return &Tools{relay: svc}
}

// Register adds every tool to server.
func (t *Tools) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolDiagnose,
		Description: "Sends a JPEG or PNG photo of hen droppings (image_path) with optional user_message, user_reply, lang (english|hausa) and session_id to the poultry vet model and returns its reply",
	}, t.Diagnose)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolClear,
		Description: "Clears the conversation for session_id (default session if omitted) and returns a confirmation in lang",
	}, t.Clear)
}

func (t *Tools) Diagnose(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[map[string]interface{}]) (*mcp.CallToolResultFor[any], error) {
	path := stringArg(params.Arguments, "image_path")
	if path == "" {
		return errorResult("❌ image_path parameter is required"), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errorResult(fmt.Sprintf("❌ Failed to read image: %v", err)), nil
	}

	sessionID := stringArg(params.Arguments, "session_id")
	log.Printf("🩺 MCP Server: diagnose request [session=%q]", sessionID)

	res, err := t.relay.Chat(ctx, relay.ChatRequest{
		SessionID:   sessionID,
		Image:       data,
		UserMessage: stringArg(params.Arguments, "user_message"),
		UserReply:   stringArg(params.Arguments, "user_reply"),
		Lang:        stringArg(params.Arguments, "lang"),
	})
	if err != nil {
		return errorResult(relayMessage(err)), nil
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: res.Response},
		},
		Meta: map[string]interface{}{
			"lang":  string(res.Lang),
			"model": res.Model,
		},
	}, nil
}

func (t *Tools) Clear(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[map[string]interface{}]) (*mcp.CallToolResultFor[any], error) {
	msg, err := t.relay.Reset(stringArg(params.Arguments, "session_id"), stringArg(params.Arguments, "lang"))
	if err != nil {
		return errorResult(relayMessage(err)), nil
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}, nil
}

func stringArg(args map[string]interface{}, name string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	return ""
}

func relayMessage(err error) string {
	var vErr *relay.ValidationError
	var upErr *relay.UpstreamError
	switch {
	case errors.As(err, &vErr):
		return vErr.Message()
	case errors.As(err, &upErr):
		log.Printf("❌ MCP Server: upstream failure: %v", upErr.Err)
		return upErr.Message()
	default:
		return err.Error()
	}
}

func errorResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
