// Package server implements the MCP (Model Context Protocol) server for food label tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the label pipeline
// (text cleanup, section parsing, allergen and dietary analysis, OCR scanning)
// through the MCP protocol.
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
// Text Pipeline:
//   - label_normalize: Clean raw OCR text
//   - label_parse_text: Parse text into a label record with allergens and dietary tags
//   - label_detect_allergens: Find allergen words in text
//   - label_assess_suitability: Dietary tags from nutrients and ingredients
//   - label_report: Markdown or HTML report for label text
//
// Image Pipeline:
//   - label_scan_image: OCR and parse one label photo, optionally a region of it
//   - label_scan_batch: Scan several photos in parallel
//   - label_preprocess: Preview the image handed to OCR
//   - image_load: Load image and get metadata
//   - ocr_info: OCR engine details
//
// # Argument Validation
//
// Every tool's input schema is compiled once at startup and tools/call
// arguments are validated against it before the tool runs.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses:
//   - -32700: the request line is not JSON
//   - -32601: unknown method or tool
//   - -32602: arguments do not match the tool's input schema
//   - -32000: the tool ran and failed (missing file, bad region, OCR failure)
//
// # Usage
//
//	srv := server.New(server.Options{Recognizer: ocr.NewTesseract("eng", "", 3)})
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
