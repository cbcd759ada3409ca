package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/caesartm"
	"github.com/aretw0/caesartm/internal/presentation/graph"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/aretw0/caesartm/pkg/export"
	"github.com/aretw0/caesartm/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RunURIPrefix addresses stored runs as resources.
const RunURIPrefix = "caesartm://runs/"

// RunArgs are the arguments of the encode, decode and audit tools.
type RunArgs struct {
	Key  int    `json:"key"`
	Text string `json:"text"`
}

// DiagramArgs are the arguments of the state_diagram tool.
type DiagramArgs struct {
	Key int `json:"key"`
}

// RunResponse is the structured result of encode and decode.
type RunResponse struct {
	ID     string          `json:"id,omitempty" jsonschema_description:"Stored run ID, empty when persistence is disabled"`
	Key    int             `json:"key" jsonschema_description:"Key the machine ran with"`
	Input  string          `json:"input" jsonschema_description:"Sanitized input tape"`
	Output string          `json:"output" jsonschema_description:"Tape contents at halt, without the blank"`
	Steps  int             `json:"steps" jsonschema_description:"Transitions applied"`
	Trace  []export.Record `json:"trace" jsonschema_description:"One record per snapshot"`
}

// AuditResponse is the structured result of audit.
type AuditResponse struct {
	Key        int    `json:"key"`
	InverseKey int    `json:"inverse_key"`
	Input      string `json:"input"`
	Encoded    string `json:"encoded"`
	Decoded    string `json:"decoded"`
	Reversible bool   `json:"reversible" jsonschema_description:"True when decoding the ciphertext recovers the input"`
}

// DiagramResponse is the structured result of state_diagram.
type DiagramResponse struct {
	Key     int    `json:"key"`
	Shift   int    `json:"shift" jsonschema_description:"Key reduced modulo 26"`
	Rules   int    `json:"rules" jsonschema_description:"Number of transition rules"`
	Mermaid string `json:"mermaid"`
}

// Server wraps a runner and exposes it as an MCP Server.
type Server struct {
	runner    *runner.Runner
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(r *runner.Runner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		runner:    r,
		logger:    logger,
		mcpServer: server.NewMCPServer("caesartm-mcp", strings.TrimSpace(caesartm.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+host))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	runParams := []mcp.ToolOption{
		mcp.WithNumber("key", mcp.Required(), mcp.Description("Shift key K; any integer, reduced modulo 26")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Message; non-letters are dropped and letters upper-cased")),
	}

	encodeTool := mcp.NewTool("encode", append([]mcp.ToolOption{
		mcp.WithDescription("Encrypt text with the Caesar Turing machine and return its full trace."),
		mcp.WithOutputSchema[RunResponse](),
	}, runParams...)...)
	s.mcpServer.AddTool(encodeTool, mcp.NewStructuredToolHandler(s.handleEncode))

	decodeTool := mcp.NewTool("decode", append([]mcp.ToolOption{
		mcp.WithDescription("Decrypt text by running the machine with the inverse key."),
		mcp.WithOutputSchema[RunResponse](),
	}, runParams...)...)
	s.mcpServer.AddTool(decodeTool, mcp.NewStructuredToolHandler(s.handleDecode))

	auditTool := mcp.NewTool("audit", append([]mcp.ToolOption{
		mcp.WithDescription("Encrypt, then decrypt with a second machine, and report whether the input was recovered."),
		mcp.WithOutputSchema[AuditResponse](),
	}, runParams...)...)
	s.mcpServer.AddTool(auditTool, mcp.NewStructuredToolHandler(s.handleAudit))

	diagramTool := mcp.NewTool("state_diagram",
		mcp.WithDescription("Return the Mermaid state diagram of the machine for a key."),
		mcp.WithNumber("key", mcp.Required(), mcp.Description("Shift key K")),
		mcp.WithOutputSchema[DiagramResponse](),
	)
	s.mcpServer.AddTool(diagramTool, mcp.NewStructuredToolHandler(s.handleStateDiagram))
}

func (s *Server) handleEncode(ctx context.Context, _ mcp.CallToolRequest, args RunArgs) (RunResponse, error) {
	res, err := s.runner.Encode(ctx, args.Key, args.Text)
	if err = s.checkRun("encode", res, err); err != nil {
		return RunResponse{}, err
	}
	return toRunResponse(res.Run), nil
}

func (s *Server) handleDecode(ctx context.Context, _ mcp.CallToolRequest, args RunArgs) (RunResponse, error) {
	res, err := s.runner.Decode(ctx, args.Key, args.Text)
	if err = s.checkRun("decode", res, err); err != nil {
		return RunResponse{}, err
	}
	return toRunResponse(res.Run), nil
}

func (s *Server) handleAudit(ctx context.Context, _ mcp.CallToolRequest, args RunArgs) (AuditResponse, error) {
	res, err := s.runner.Audit(ctx, args.Key, args.Text)
	if err = s.checkRun("audit", res, err); err != nil {
		return AuditResponse{}, err
	}
	a := res.Audit
	return AuditResponse{
		Key:        a.Key,
		InverseKey: a.InverseKey,
		Input:      a.Input,
		Encoded:    a.Encoded,
		Decoded:    a.Decoded,
		Reversible: a.Reversible,
	}, nil
}

func (s *Server) handleStateDiagram(_ context.Context, _ mcp.CallToolRequest, args DiagramArgs) (DiagramResponse, error) {
	table := domain.BuildTable(args.Key)
	return DiagramResponse{
		Key:     args.Key,
		Shift:   table.Shift(),
		Rules:   table.Len(),
		Mermaid: graph.GenerateMermaid(table, nil),
	}, nil
}

// checkRun logs and filters runner errors. A persistence failure still
// carries a usable result, so it is not surfaced to the client.
func (s *Server) checkRun(op string, res *runner.Result, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, runner.ErrPersist) && res != nil:
		s.logger.Warn("MCP: Run not persisted", "op", op, "error", err)
		return nil
	case runner.IsValidationError(err):
		s.logger.Warn("MCP: Input rejected", "op", op, "error", err)
		return fmt.Errorf("input rejected: %w", err)
	default:
		s.logger.Error("MCP: Run failed", "op", op, "error", err)
		return fmt.Errorf("%s failed: %w", op, err)
	}
}

func toRunResponse(run *domain.Run) RunResponse {
	return RunResponse{
		ID:     run.ID,
		Key:    run.Key,
		Input:  run.Input,
		Output: run.Output,
		Steps:  len(run.History) - 1,
		Trace:  export.Records(run.History),
	}
}

func (s *Server) registerResources() {
	// EXPOSE: caesartm://runs/{id}
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(RunURIPrefix+"{id}", "Stored run",
			mcp.WithTemplateDescription("A persisted run with its full history"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.readRun,
	)
}

func (s *Server) readRun(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if s.runner.Store == nil {
		return nil, errors.New("run store disabled")
	}
	uri := request.Params.URI
	id := strings.TrimPrefix(uri, RunURIPrefix)
	if id == "" || id == uri {
		return nil, fmt.Errorf("invalid run URI %q; use %s{id}", uri, RunURIPrefix)
	}

	run, err := s.runner.Store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	jsonBytes, err := json.Marshal(run)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
