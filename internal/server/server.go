package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/ironsheep/label-tools-mcp/internal/imaging"
	"github.com/ironsheep/label-tools-mcp/internal/label"
	"github.com/ironsheep/label-tools-mcp/internal/ocr"
	"github.com/ironsheep/label-tools-mcp/internal/scan"
)

// Version is reported in the initialize handshake; set by main.
var Version = "dev"

// Server handles MCP protocol communication
type Server struct {
	cache      *imaging.ImageCache
	recognizer ocr.Recognizer
	scanner    *scan.Scanner
	scanOpts   scan.Options
	schemas    map[string]*jsonschema.Schema
	logger     *zap.Logger
}

// Options wires the server to its collaborators.
type Options struct {
	Cache      *imaging.ImageCache
	Recognizer ocr.Recognizer
	Scan       scan.Options
	Logger     *zap.Logger
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC error codes used by the server.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// New creates a new MCP server instance.
//
// Missing options get working defaults: a fresh image cache, a Tesseract
// recognizer for English and a no-op logger. Tool schemas are compiled here;
// a schema that fails to compile is a programming error and panics.
func New(opts Options) *Server {
	if opts.Cache == nil {
		opts.Cache = imaging.NewImageCache(0)
	}
	if opts.Recognizer == nil {
		opts.Recognizer = ocr.NewTesseract(ocr.DefaultLanguage, "", 0)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	schemas, err := compileToolSchemas(GetToolDefinitions())
	if err != nil {
		panic(err)
	}

	return &Server{
		cache:      opts.Cache,
		recognizer: opts.Recognizer,
		scanner:    scan.New(opts.Cache, opts.Recognizer, opts.Scan, opts.Logger),
		scanOpts:   opts.Scan,
		schemas:    schemas,
		logger:     opts.Logger,
	}
}

// parseOptions are the text pipeline settings shared by text tools and scans.
func (s *Server) parseOptions() label.ParseOptions {
	return s.scanOpts.Parse
}

// Run serves requests read from r, one JSON-RPC message per line, and writes
// responses to w until r is exhausted or ctx is done.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp *MCPResponse
		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", zap.Error(err))
			resp = s.errorResponse(nil, codeParseError, "Parse error", err.Error())
		} else {
			resp = s.handleRequest(ctx, &req)
		}

		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.Error("failed to encode response", zap.Error(err))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "label-tools-mcp",
				"version": Version,
			},
		},
	}
}

// handleToolsList returns the tool catalogue.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}
