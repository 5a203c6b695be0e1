package stylometry

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stylo-labs/stylo/internal/structure"
)

func TestStripMarkdownFences(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no lang", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}\n", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripMarkdownFences(tc.input); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestGenerateJSON(t *testing.T) {
	analyzer := NewAnalyzer(NewMockLLM("```json\n{\"strategy\": \"fail-fast\"}\n```"))

	result, err := analyzer.GenerateJSON(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("Failed to generate JSON: %v", err)
	}
	if result["strategy"] != "fail-fast" {
		t.Errorf("Unexpected result: %v", result)
	}
}

func TestGenerateJSON_InvalidResponse(t *testing.T) {
	analyzer := NewAnalyzer(NewMockLLM("this is not json"))

	_, err := analyzer.GenerateJSON(context.Background(), "analyze this")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Expected ErrInvalidResponse, got %v", err)
	}
}

func TestGenerateJSON_LLMError(t *testing.T) {
	analyzer := NewAnalyzer(NewMockLLMWithError(ErrLLMFailed))

	_, err := analyzer.GenerateJSON(context.Background(), "analyze this")
	if !errors.Is(err, ErrLLMFailed) {
		t.Errorf("Expected ErrLLMFailed, got %v", err)
	}
}

func TestSelectFiles(t *testing.T) {
	response := `{
		"repositories": {
			"widget": {
				"core_files": ["main.go", "internal/core.go"],
				"secondary_files": ["web/app.js"],
				"config_files": ["go.mod"]
			}
		}
	}`
	mock := NewMockLLM(response)
	analyzer := NewAnalyzer(mock)

	structures := map[string]structure.TreeNode{
		"widget": {Type: "directory", Name: "widget"},
	}

	selections, err := analyzer.SelectFiles(context.Background(), structures)
	if err != nil {
		t.Fatalf("Failed to select files: %v", err)
	}

	sel, ok := selections["widget"]
	if !ok {
		t.Fatal("Expected selection for widget")
	}
	if len(sel.CoreFiles) != 2 || sel.CoreFiles[0] != "main.go" {
		t.Errorf("Unexpected core files: %v", sel.CoreFiles)
	}

	if len(mock.Prompts) != 1 || !strings.Contains(mock.Prompts[0], `"widget"`) {
		t.Error("Expected prompt to contain the repository structure")
	}
}

func TestSelectFiles_MissingRepositoriesKey(t *testing.T) {
	analyzer := NewAnalyzer(NewMockLLM(`{"unexpected": true}`))

	_, err := analyzer.SelectFiles(context.Background(), nil)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Expected ErrInvalidResponse, got %v", err)
	}
}

func testSources() map[string]*structure.RepoStructure {
	return map[string]*structure.RepoStructure{
		"widget": {
			Structure: structure.TreeNode{Type: "directory", Name: "widget"},
			Languages: "Go",
			Samples: &structure.Samples{
				CoreFiles: map[string]string{"main.go": "package main"},
			},
		},
	}
}

func TestAnalyzeCodeStyle(t *testing.T) {
	analyzer := NewAnalyzer(NewMockLLM(`{"error_handling": {"strategy": "fail-fast"}}`))

	results := analyzer.AnalyzeCodeStyle(context.Background(), testSources())

	entry, ok := results["widget"].(map[string]any)
	if !ok {
		t.Fatalf("Expected map entry for widget, got %T", results["widget"])
	}
	if _, ok := entry["error_handling"]; !ok {
		t.Errorf("Unexpected analysis: %v", entry)
	}
}

func TestAnalyzeCodeStyle_ErrorEntry(t *testing.T) {
	analyzer := NewAnalyzer(NewMockLLMWithError(errors.New("quota exceeded")))

	results := analyzer.AnalyzeCodeStyle(context.Background(), testSources())

	entry, ok := results["widget"].(map[string]any)
	if !ok {
		t.Fatalf("Expected map entry for widget, got %T", results["widget"])
	}
	if entry["error"] != "quota exceeded" {
		t.Errorf("Expected error entry, got %v", entry)
	}
}

func TestAnalyzeProjectPreferences(t *testing.T) {
	mock := NewMockLLM(`{"technical_choices": {}}`)
	analyzer := NewAnalyzer(mock)

	results := analyzer.AnalyzeProjectPreferences(context.Background(), testSources())

	if _, ok := results["widget"].(map[string]any); !ok {
		t.Fatalf("Expected map entry for widget, got %T", results["widget"])
	}
	if len(mock.Prompts) != 1 || !strings.Contains(mock.Prompts[0], "Languages: Go") {
		t.Error("Expected prompt to carry the language summary")
	}
}

func TestAnalyzeEvolution_SkipsEmptyRepos(t *testing.T) {
	mock := NewMockLLM(`{"evolution_patterns": {}}`)
	analyzer := NewAnalyzer(mock)

	contents := map[string]EvolutionData{
		"active": {
			CoreFiles: []string{"main.go"},
			Evolution: FileEvolution{CommitCount: 3},
		},
		"empty": {
			CoreFiles: []string{"main.go"},
		},
	}

	results := analyzer.AnalyzeEvolution(context.Background(), contents)

	if _, ok := results["active"]; !ok {
		t.Error("Expected result for active repo")
	}
	if _, ok := results["empty"]; ok {
		t.Error("Repo without sampled commits should be skipped")
	}
	if len(mock.Prompts) != 1 {
		t.Errorf("Expected 1 LLM call, got %d", len(mock.Prompts))
	}
}

func TestCalculateIdentityConfidence(t *testing.T) {
	mock := NewMockLLM(`{"developer_profile": {"identity_confidence": {"overall_score": 85}}}`)
	analyzer := NewAnalyzer(mock)

	temporal := &TemporalAnalysis{
		ActivityPatterns: AnalyzeActivity(nil),
	}

	result, err := analyzer.CalculateIdentityConfidence(
		context.Background(),
		testSources(),
		map[string]any{"widget": map[string]any{}},
		map[string]any{"widget": map[string]any{}},
		temporal,
	)
	if err != nil {
		t.Fatalf("Failed to calculate identity confidence: %v", err)
	}

	if _, ok := result["developer_profile"]; !ok {
		t.Errorf("Unexpected result: %v", result)
	}
	if len(mock.Prompts) != 1 || !strings.Contains(mock.Prompts[0], "code_style_analysis") {
		t.Error("Expected prompt to carry the consolidated analysis data")
	}
}
