package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RetrieveInput is the input schema for the retrieval tool.
type RetrieveInput struct {
	Consulta string `json:"consulta" jsonschema:"la consulta de búsqueda en la base de conocimiento"`
}

// RetrieveOutput is the output schema for the retrieval tool.
type RetrieveOutput struct {
	Context string `json:"context"`
	Empty   bool   `json:"empty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Pregunta string `json:"pregunta" jsonschema:"la pregunta en lenguaje natural"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// Tool names. The retrieval tool keeps the agent's tool name.
const (
	retrieveToolName = "buscar_contexto"
	askToolName      = "preguntar"
)

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        retrieveToolName,
		Description: "Busca información relevante en la base de conocimiento y devuelve los fragmentos más similares con su fuente, categoría y autor.",
	}, s.handleRetrieve)

	if s.ports.Ask != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        askToolName,
			Description: "Responde una pregunta usando el agente con acceso a la base de conocimiento.",
		}, s.handleAsk)
	}
}

// handleRetrieve handles the retrieval tool invocation.
// Retrieval failures arrive as text and are passed through unchanged.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	if strings.TrimSpace(input.Consulta) == "" {
		return nil, RetrieveOutput{}, errors.New("consulta is required")
	}

	text := s.ports.Retrieval.Retrieve(ctx, input.Consulta)
	return nil, RetrieveOutput{Context: text, Empty: text == ""}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Ask.Ask(ctx, input.Pregunta)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{Answer: answer}, nil
}
