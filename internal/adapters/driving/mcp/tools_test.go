package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_handleRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns rendered context", func(t *testing.T) {
		retrieval := &mockRetrievalService{text: "Fuente: Blog\nContenido: hola..."}
		server, err := NewServer(&Ports{Retrieval: retrieval})
		require.NoError(t, err)

		_, output, err := server.handleRetrieve(ctx, nil, RetrieveInput{Consulta: "kubernetes"})

		require.NoError(t, err)
		assert.Equal(t, "Fuente: Blog\nContenido: hola...", output.Context)
		assert.False(t, output.Empty)
		assert.Equal(t, []string{"kubernetes"}, retrieval.queries)
	})

	t.Run("empty result is flagged", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		_, output, err := server.handleRetrieve(ctx, nil, RetrieveInput{Consulta: "nada"})

		require.NoError(t, err)
		assert.True(t, output.Empty)
	})

	t.Run("blank query is rejected", func(t *testing.T) {
		retrieval := &mockRetrievalService{}
		server, err := NewServer(&Ports{Retrieval: retrieval})
		require.NoError(t, err)

		_, _, err = server.handleRetrieve(ctx, nil, RetrieveInput{Consulta: "  "})

		require.Error(t, err)
		assert.Empty(t, retrieval.queries)
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer", func(t *testing.T) {
		ask := &mockAskService{answer: "Los microservicios son servicios pequeños."}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Ask: ask})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Pregunta: "¿Qué son?"})

		require.NoError(t, err)
		assert.Equal(t, "Los microservicios son servicios pequeños.", output.Answer)
		assert.Equal(t, []string{"¿Qué son?"}, ask.questions)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		ask := &mockAskService{err: errors.New("agent failed")}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Ask: ask})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Pregunta: "hola"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "agent failed")
	})
}
