package server

import "github.com/ironsheep/ppguess/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func regionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        imaging.RegionNames,
		"description": "Optional named region to analyze instead of the whole image",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, channel count and pixel weight. The decoded image is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "exposure_analyze",
			Description: "Check a photo for exposure problems: clipped blacks, clipped whites, lifted blacks and crushed blacks. Returns the findings in evaluation order plus image metadata.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"region": regionProperty(),
					"hue": map[string]interface{}{
						"type":        "boolean",
						"description": "Also compute the hue profile",
						"default":     false,
					},
					"include_histogram": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the per-channel and total histograms in the result",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "exposure_histogram",
			Description: "Return the 256-bin blue, green, red and total histograms, the pixel weight, and the first difference of the total histogram.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"region": regionProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "exposure_hue_profile",
			Description: "Return the 360-bin hue histogram with dominant and circular mean hue.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"region": regionProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "exposure_plots",
			Description: "Render the histogram, derivative and polar hue charts plus a contact sheet, each as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"region": regionProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
