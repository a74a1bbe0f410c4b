package mcp

import (
	"io"
	"log/slog"
	"testing"
)

// Tool registration infers JSON schemas from the typed handler arguments; a
// struct tag the schema package rejects makes registration panic, so server
// construction exercises every tool's input and output schema.
func TestNewServerRegistersTools(t *testing.T) {
	srv, err := NewServer(&Config{
		Name:    "trialgen",
		Version: "v0.0.0",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if srv == nil {
		t.Fatal("NewServer returned nil server")
	}
}
