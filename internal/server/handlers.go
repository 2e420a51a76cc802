package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/label-tools-mcp/internal/imaging"
	"github.com/ironsheep/label-tools-mcp/internal/label"
	"github.com/ironsheep/label-tools-mcp/internal/ocr"
	"github.com/ironsheep/label-tools-mcp/internal/report"
	"github.com/ironsheep/label-tools-mcp/internal/scan"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "label_parse_text", "label_scan_image").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errUnknownTool marks a tools/call for a name the server does not offer.
var errUnknownTool = errors.New("unknown tool")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Arguments that do not match the tool's input schema return -32602. An
// unknown tool returns -32601 and a failing tool -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 || string(params.Arguments) == "null" {
		params.Arguments = json.RawMessage("{}")
	}

	if err := s.validateArguments(params.Name, params.Arguments); err != nil {
		if errors.Is(err, errUnknownTool) {
			return s.errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Unknown tool: %s", params.Name), "")
		}
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool succeeded", zap.String("tool", params.Name), zap.Duration("duration", time.Since(start)))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// validateArguments checks args against the named tool's input schema.
func (s *Server) validateArguments(name string, args json.RawMessage) error {
	schema, ok := s.schemas[name]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownTool, name)
	}
	var v interface{}
	if err := json.Unmarshal(args, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Arguments have already passed schema validation; handlers only apply
// defaults for optional parameters.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Text Pipeline
	case "label_normalize":
		return s.handleLabelNormalize(args)
	case "label_parse_text":
		return s.handleLabelParseText(args)
	case "label_detect_allergens":
		return s.handleLabelDetectAllergens(args)
	case "label_assess_suitability":
		return s.handleLabelAssessSuitability(args)
	case "label_report":
		return s.handleLabelReport(args)

	// Image Pipeline
	case "label_scan_image":
		return s.handleLabelScanImage(ctx, args)
	case "label_scan_batch":
		return s.handleLabelScanBatch(ctx, args)
	case "label_preprocess":
		return s.handleLabelPreprocess(args)
	case "image_load":
		return s.handleImageLoad(args)
	case "ocr_info":
		return s.handleOCRInfo()

	default:
		return nil, fmt.Errorf("%w: %s", errUnknownTool, name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// parseOptionsFor applies a per-call repair_markers override.
func (s *Server) parseOptionsFor(repair *bool) label.ParseOptions {
	opts := s.parseOptions()
	if repair != nil {
		opts.RepairMarkers = *repair
	}
	return opts
}

// renderReport renders a as Markdown or HTML.
func renderReport(a label.Analysis, format string) (string, error) {
	if format == "html" {
		return report.HTML(a)
	}
	return report.Markdown(a), nil
}

// === Text Pipeline Handlers ===

type textArgs struct {
	Text          string `json:"text"`
	RepairMarkers *bool  `json:"repair_markers"`
}

type normalizeResult struct {
	Text string `json:"text"`
}

func (s *Server) handleLabelNormalize(args json.RawMessage) (interface{}, error) {
	var a textArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return &normalizeResult{Text: label.Normalize(a.Text)}, nil
}

func (s *Server) handleLabelParseText(args json.RawMessage) (interface{}, error) {
	var a textArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	analysis := label.Analyze(label.ParseWith(a.Text, s.parseOptionsFor(a.RepairMarkers)))
	return &analysis, nil
}

type allergensResult struct {
	Allergens []string `json:"allergens"`
	Count     int      `json:"count"`
}

func (s *Server) handleLabelDetectAllergens(args json.RawMessage) (interface{}, error) {
	var a textArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	found := label.DetectAllergens(a.Text).Sorted()
	return &allergensResult{Allergens: found, Count: len(found)}, nil
}

type suitabilityArgs struct {
	Nutrients   label.NutrientMap `json:"nutrients"`
	Ingredients *string           `json:"ingredients"`
}

type suitabilityResult struct {
	Suitability []string `json:"suitability"`
}

func (s *Server) handleLabelAssessSuitability(args json.RawMessage) (interface{}, error) {
	var a suitabilityArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return &suitabilityResult{Suitability: label.AssessSuitability(a.Nutrients, a.Ingredients)}, nil
}

type reportArgs struct {
	Text          string `json:"text"`
	Format        string `json:"format"`
	RepairMarkers *bool  `json:"repair_markers"`
}

type reportResult struct {
	Format string `json:"format"`
	Report string `json:"report"`
}

func (s *Server) handleLabelReport(args json.RawMessage) (interface{}, error) {
	var a reportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Format == "" {
		a.Format = "markdown"
	}

	analysis := label.Analyze(label.ParseWith(a.Text, s.parseOptionsFor(a.RepairMarkers)))
	out, err := renderReport(analysis, a.Format)
	if err != nil {
		return nil, err
	}
	return &reportResult{Format: a.Format, Report: out}, nil
}

// === Image Pipeline Handlers ===

type scanImageArgs struct {
	Path   string `json:"path"`
	X1     int    `json:"x1"`
	Y1     int    `json:"y1"`
	X2     int    `json:"x2"`
	Y2     int    `json:"y2"`
	Format string `json:"format"`
}

type scanImageResult struct {
	*scan.Result
	Report string `json:"report,omitempty"`
}

func (s *Server) handleLabelScanImage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scanImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	res, err := s.scanner.Scan(ctx, scan.Request{
		Path:   a.Path,
		Region: imaging.Region{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2},
	})
	if err != nil {
		return nil, err
	}

	out := &scanImageResult{Result: res}
	if a.Format == "markdown" || a.Format == "html" {
		out.Report, err = renderReport(*res.Analysis, a.Format)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

type scanBatchArgs struct {
	Paths []string `json:"paths"`
}

type scanBatchResult struct {
	Results []scan.Result `json:"results"`
	Count   int           `json:"count"`
	Failed  int           `json:"failed"`
}

func (s *Server) handleLabelScanBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scanBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	results, err := s.scanner.ScanBatch(ctx, a.Paths)
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	return &scanBatchResult{Results: results, Count: len(results), Failed: failed}, nil
}

type pathArgs struct {
	Path string `json:"path"`
}

type preprocessResult struct {
	Report imaging.PreprocessReport `json:"report"`
	Image  *imaging.EncodedImage    `json:"image"`
}

func (s *Server) handleLabelPreprocess(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	prepared, rep := imaging.Preprocess(img, s.scanOpts.Preprocess)
	encoded, err := imaging.EncodePNGBase64(prepared)
	if err != nil {
		return nil, err
	}
	return &preprocessResult{Report: rep, Image: encoded}, nil
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// infoProvider is implemented by recognizers that can describe their engine.
type infoProvider interface {
	Info() ocr.Info
}

func (s *Server) handleOCRInfo() (interface{}, error) {
	if p, ok := s.recognizer.(infoProvider); ok {
		info := p.Info()
		return &info, nil
	}
	return &ocr.Info{Available: true, Backend: fmt.Sprintf("%T", s.recognizer)}, nil
}
