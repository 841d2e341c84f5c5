package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/ppguess/internal/analyzer"
	"github.com/ironsheep/ppguess/internal/apperr"
	"github.com/ironsheep/ppguess/internal/histogram"
	"github.com/ironsheep/ppguess/internal/imaging"
	"github.com/ironsheep/ppguess/internal/plot"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "exposure_analyze").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"tool": params.Name,
			"kind": apperr.KindOf(err),
		}).WithError(err).Warn("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "exposure_analyze":
		return s.handleExposureAnalyze(ctx, args)
	case "exposure_histogram":
		return s.handleExposureHistogram(ctx, args)
	case "exposure_hue_profile":
		return s.handleExposureHueProfile(ctx, args)
	case "exposure_plots":
		return s.handleExposurePlots(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return apperr.NewArgumentError("missing arguments", nil)
	}
	if err := json.Unmarshal(args, v); err != nil {
		return apperr.NewArgumentError("invalid arguments", err)
	}
	return nil
}

// analyze runs the shared pipeline for one tool call.
func (s *Server) analyze(ctx context.Context, path string, opts analyzer.Options) (*analyzer.Report, error) {
	if path == "" {
		return nil, apperr.NewArgumentError("path is required", nil)
	}
	opts.MaxDimension = s.opts.MaxDimension
	return analyzer.New(s.cache, opts, s.log).Analyze(ctx, path)
}

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, apperr.NewArgumentError("path is required", nil)
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type exposureAnalyzeArgs struct {
	Path             string `json:"path"`
	Region           string `json:"region"`
	Hue              bool   `json:"hue"`
	IncludeHistogram bool   `json:"include_histogram"`
}

func (s *Server) handleExposureAnalyze(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a exposureAnalyzeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.analyze(ctx, a.Path, analyzer.Options{
		Region:           a.Region,
		HueProfile:       a.Hue,
		IncludeHistogram: a.IncludeHistogram,
	})
}

type regionArgs struct {
	Path   string `json:"path"`
	Region string `json:"region"`
}

// HistogramResult is the payload of exposure_histogram.
type HistogramResult struct {
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	PixelWeight int            `json:"pixel_weight"`
	Histogram   *histogram.Set `json:"histogram"`
	Derivative  []int          `json:"derivative"`
}

func (s *Server) handleExposureHistogram(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a regionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	report, err := s.analyze(ctx, a.Path, analyzer.Options{Region: a.Region})
	if err != nil {
		return nil, err
	}
	set := report.HistogramSet()
	return &HistogramResult{
		Width:       report.Width,
		Height:      report.Height,
		PixelWeight: report.PixelWeight,
		Histogram:   set,
		Derivative:  histogram.Derivative(set.Total),
	}, nil
}

func (s *Server) handleExposureHueProfile(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a regionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	report, err := s.analyze(ctx, a.Path, analyzer.Options{Region: a.Region, HueProfile: true})
	if err != nil {
		return nil, err
	}
	return report.Hue, nil
}

// PlotsResult is the payload of exposure_plots. Images maps chart name
// (histogram, derivative, hue, sheet) to base64 PNG.
type PlotsResult struct {
	Format string            `json:"format"`
	Images map[string]string `json:"images"`
}

func (s *Server) handleExposurePlots(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a regionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	report, err := s.analyze(ctx, a.Path, analyzer.Options{Region: a.Region, HueProfile: true})
	if err != nil {
		return nil, err
	}
	plots, err := plot.Render(report.HistogramSet(), report.Hue)
	if err != nil {
		return nil, err
	}
	images, err := plots.Encoded()
	if err != nil {
		return nil, err
	}
	return &PlotsResult{Format: "png", Images: images}, nil
}
