// Package mcp provides an MCP (Model Context Protocol) server adapter for kbrag.
// It lets AI assistants query the knowledge base through the same retrieval
// tool the agent uses.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
