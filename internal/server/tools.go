package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func pathProp() map[string]interface{} {
	return stringProp("Absolute path to the label image file")
}

func coordProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"description": description,
	}
}

func repairProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Fix marker words mangled by OCR (e.g. 'lngredients:') before parsing. Defaults to the server setting.",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Text Pipeline
		{
			Name:        "label_normalize",
			Description: "Clean raw OCR text: fold accents and ligatures, drop unsupported characters and collapse whitespace.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": stringProp("Raw text read from a label"),
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "label_parse_text",
			Description: "Parse label text into product name, ingredients, vitamins and minerals, nutrition facts and special notes, with detected allergens and dietary suitability tags.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text":           stringProp("Raw text read from a label"),
					"repair_markers": repairProp(),
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "label_detect_allergens",
			Description: "Find major allergens mentioned as whole words in the given text. Returns them sorted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": stringProp("Ingredient list or other label text"),
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "label_assess_suitability",
			Description: "Derive dietary suitability tags (Low-Fat, High-Protein, Low-Sugar, Vegan-Friendly, Vegetarian-Friendly) from nutrition facts and an optional ingredient list.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"nutrients": map[string]interface{}{
						"type":                 "object",
						"description":          "Nutrient name to value with unit, e.g. {\"Fat\": \"2 g\"}",
						"additionalProperties": map[string]interface{}{"type": "string"},
					},
					"ingredients": stringProp("Ingredient list; vegan and vegetarian checks are skipped without it"),
				},
				"required": []string{"nutrients"},
			},
		},
		{
			Name:        "label_report",
			Description: "Parse label text and render a human-readable report in Markdown or HTML.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": stringProp("Raw text read from a label"),
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"markdown", "html"},
						"description": "Report format (default: markdown)",
					},
					"repair_markers": repairProp(),
				},
				"required": []string{"text"},
			},
		},

		// Image Pipeline
		{
			Name:        "label_scan_image",
			Description: "OCR a label photo and parse it. Optionally restrict OCR to a region and attach a rendered report.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProp(),
					"x1":   coordProp("Left edge X coordinate of the region to read"),
					"y1":   coordProp("Top edge Y coordinate of the region to read"),
					"x2":   coordProp("Right edge X coordinate (exclusive)"),
					"y2":   coordProp("Bottom edge Y coordinate (exclusive)"),
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"json", "markdown", "html"},
						"description": "json returns the analysis only; markdown and html also attach a report (default: json)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "label_scan_batch",
			Description: "Scan several label photos in parallel. Failed images are reported per item and do not stop the batch.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"minItems":    1,
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to label image files",
					},
				},
				"required": []string{"paths"},
			},
		},
		{
			Name:        "label_preprocess",
			Description: "Show the image exactly as the OCR engine will see it, as base64-encoded PNG, with a summary of the steps applied.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProp(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for subsequent scans.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProp(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ocr_info",
			Description: "Report the OCR engine version and configured language.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// compileToolSchemas compiles every tool's input schema for argument validation.
func compileToolSchemas(tools []Tool) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	schemas := make(map[string]*jsonschema.Schema, len(tools))

	for _, tool := range tools {
		raw, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("marshal schema for %s: %w", tool.Name, err)
		}
		url := tool.Name + ".json"
		if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema for %s: %w", tool.Name, err)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", tool.Name, err)
		}
		schemas[tool.Name] = schema
	}

	return schemas, nil
}
