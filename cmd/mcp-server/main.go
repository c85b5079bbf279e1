package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"vet-chatter/internal/config"
	"vet-chatter/internal/history"
	"vet-chatter/internal/llm"
	"vet-chatter/internal/mcptools"
	"vet-chatter/internal/relay"
	"vet-chatter/internal/storage"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	log.Printf("🚀 Starting vet-chatter MCP Server")

	cfg := config.New()
	ctx := context.Background()

	llmClient, err := llm.NewFactory(cfg).CreateClient(ctx, string(cfg.LLMProvider))
	if err != nil {
		log.Fatalf("❌ failed to create llm client: %v", err)
	}

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		if fr, err := storage.NewFileRecorder(cfg.LogFilePath); err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			rec = fr
		}
	}

	svc := relay.New(llmClient, history.NewManager(), relay.Options{
		Provider: string(cfg.LLMProvider),
		Timeout:  cfg.LLMTimeout,
		Recorder: rec,
	})

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "vet-chatter-mcp",
		Version: "1.0.0",
	}, nil)
	mcptools.New(svc).Register(server)

	log.Printf("📋 Registered MCP tools: %s, %s", mcptools.ToolDiagnose, mcptools.ToolClear)
	log.Printf("🔗 Serving on stdin/stdout (llm timeout %s)", cfg.LLMTimeout.Round(time.Second))

	transport := mcp.NewStdioTransport()
	if err := server.Run(ctx, transport); err != nil {
		log.Fatalf("❌ MCP Server failed: %v", err)
	}
}
