package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"label_normalize",
		"label_parse_text",
		"label_detect_allergens",
		"label_assess_suitability",
		"label_report",
		"label_scan_image",
		"label_scan_batch",
		"label_preprocess",
		"image_load",
		"ocr_info",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			required, _ := tool.InputSchema["required"].([]string)
			for _, name := range required {
				if _, ok := props[name]; !ok {
					t.Errorf("required property %s is not defined", name)
				}
			}
		})
	}
}

func TestToolDefinitions_JSONSerializable(t *testing.T) {
	data, err := json.Marshal(GetToolDefinitions())
	if err != nil {
		t.Fatalf("Failed to marshal tools: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal tools: %v", err)
	}
	for _, tool := range decoded {
		if _, ok := tool["inputSchema"]; !ok {
			t.Errorf("tool %v missing inputSchema key", tool["name"])
		}
	}
}

func TestCompileToolSchemas(t *testing.T) {
	schemas, err := compileToolSchemas(GetToolDefinitions())
	if err != nil {
		t.Fatalf("compileToolSchemas: %v", err)
	}

	tests := []struct {
		tool  string
		args  string
		valid bool
	}{
		{"label_parse_text", `{"text":"Ingredients: Water"}`, true},
		{"label_parse_text", `{"text":"x","repair_markers":true}`, true},
		{"label_parse_text", `{}`, false},
		{"label_parse_text", `{"text":42}`, false},
		{"label_assess_suitability", `{"nutrients":{"Fat":"2 g"}}`, true},
		{"label_assess_suitability", `{"nutrients":{"Fat":2}}`, false},
		{"label_report", `{"text":"x","format":"pdf"}`, false},
		{"label_scan_image", `{"path":"/a.png","x1":0,"y1":0,"x2":10,"y2":10,"format":"html"}`, true},
		{"label_scan_image", `{"path":"/a.png","x1":-1}`, false},
		{"label_scan_image", `{"path":"/a.png","x1":1.5}`, false},
		{"label_scan_batch", `{"paths":[]}`, false},
		{"label_scan_batch", `{"paths":["/a.png","/b.png"]}`, true},
		{"ocr_info", `{}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.args, func(t *testing.T) {
			var v interface{}
			if err := json.Unmarshal([]byte(tt.args), &v); err != nil {
				t.Fatalf("bad test args: %v", err)
			}
			err := schemas[tt.tool].Validate(v)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
