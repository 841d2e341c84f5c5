// Package server implements the MCP (Model Context Protocol) server that
// exposes exposure analysis as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load image and get metadata, including pixel weight
//   - exposure_analyze: Findings for an image or named region
//   - exposure_histogram: Channel and total histograms with first difference
//   - exposure_hue_profile: 360-bin hue histogram and summary
//   - exposure_plots: Diagnostic charts as base64 PNG
//
// Every exposure tool accepts an optional region (top-left, top-right,
// bottom-left, bottom-right, top-half, bottom-half, left-half, right-half,
// center).
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process, so a
// client can call several tools on the same file without decoding it again.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, which names the error kind and path
//
// Logs go to stderr through the logger package; stdout carries only
// protocol messages.
//
// # Usage
//
//	srv := server.NewWithOptions(server.Options{Version: version})
//	if err := srv.Run(ctx); err != nil {
//	    logger.WithError(err).Fatal("server error")
//	}
package server
