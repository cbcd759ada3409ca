package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/caesartm/internal/logging"
	"github.com/aretw0/caesartm/pkg/adapters/memory"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/aretw0/caesartm/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(opts ...runner.Option) *Server {
	return NewServer(runner.NewRunner(opts...), logging.NewNop())
}

func TestHandleEncodeDecode(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	enc, err := s.handleEncode(ctx, mcp.CallToolRequest{}, RunArgs{Key: 3, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "KHOOR", enc.Output)
	assert.Equal(t, 6, enc.Steps)
	require.Len(t, enc.Trace, 7)
	assert.Equal(t, "KHOOR#", enc.Trace[6].Tape)
	assert.Equal(t, "halted", enc.Trace[6].State)

	dec, err := s.handleDecode(ctx, mcp.CallToolRequest{}, RunArgs{Key: 3, Text: enc.Output})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", dec.Output)
	assert.Equal(t, 23, dec.Key)
}

func TestHandleAudit(t *testing.T) {
	s := newTestServer()

	res, err := s.handleAudit(context.Background(), mcp.CallToolRequest{}, RunArgs{Key: 26, Text: "Same"})
	require.NoError(t, err)
	assert.Equal(t, "SAME", res.Encoded)
	assert.Equal(t, 0, res.InverseKey)
	assert.True(t, res.Reversible)
}

func TestHandle_Validation(t *testing.T) {
	s := newTestServer()

	_, err := s.handleEncode(context.Background(), mcp.CallToolRequest{}, RunArgs{Key: 1, Text: "42"})
	require.Error(t, err)
	assert.ErrorIs(t, err, runner.ErrEmptyInput)
	assert.Contains(t, err.Error(), "input rejected")
}

func TestHandleStateDiagram(t *testing.T) {
	s := newTestServer()

	res, err := s.handleStateDiagram(context.Background(), mcp.CallToolRequest{}, DiagramArgs{Key: -1})
	require.NoError(t, err)
	assert.Equal(t, 25, res.Shift)
	assert.Equal(t, 27, res.Rules)
	assert.Contains(t, res.Mermaid, "(x + 25) mod 26")
}

func TestReadRun(t *testing.T) {
	store := memory.NewStore()
	s := newTestServer(runner.WithStore(store))
	ctx := context.Background()

	enc, err := s.handleEncode(ctx, mcp.CallToolRequest{}, RunArgs{Key: 2, Text: "yz"})
	require.NoError(t, err)
	require.NotEmpty(t, enc.ID)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = RunURIPrefix + enc.ID
	contents, err := s.readRun(ctx, req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	var run domain.Run
	require.NoError(t, json.Unmarshal([]byte(text.Text), &run))
	assert.Equal(t, "AB", run.Output)

	t.Run("Unknown", func(t *testing.T) {
		req.Params.URI = RunURIPrefix + "missing"
		_, err := s.readRun(ctx, req)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Bad URI", func(t *testing.T) {
		req.Params.URI = "other://x"
		_, err := s.readRun(ctx, req)
		assert.Error(t, err)
	})
}

func TestReadRun_NoStore(t *testing.T) {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = RunURIPrefix + "x"
	_, err := newTestServer().readRun(context.Background(), req)
	assert.ErrorContains(t, err, "disabled")
}
