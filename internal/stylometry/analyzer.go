package stylometry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/stylo-labs/stylo/internal/structure"
)

// Analyzer runs the LLM-backed analysis stages against repository snapshots.
type Analyzer struct {
	llm LLM
}

// NewAnalyzer creates an analyzer backed by the given LLM.
func NewAnalyzer(llm LLM) *Analyzer {
	return &Analyzer{llm: llm}
}

// GenerateJSON sends the prompt and decodes the response as a JSON object,
// tolerating markdown code fences some models insist on adding.
func (a *Analyzer) GenerateJSON(ctx context.Context, prompt string) (map[string]any, error) {
	raw, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	cleaned := stripMarkdownFences(raw)

	var result map[string]any
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	return result, nil
}

// SelectFiles asks the LLM to pick analysis-worthy files from the size-filtered
// repository trees, returning one selection per repository.
func (a *Analyzer) SelectFiles(ctx context.Context, structures map[string]structure.TreeNode) (map[string]structure.FileSelection, error) {
	structuresJSON, err := marshalIndent(structures)
	if err != nil {
		return nil, err
	}

	raw, err := a.llm.Generate(ctx, fileSelectionPrompt(structuresJSON))
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Repositories map[string]structure.FileSelection `json:"repositories"`
	}
	if err := json.Unmarshal([]byte(stripMarkdownFences(raw)), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if decoded.Repositories == nil {
		return nil, fmt.Errorf("%w: missing repositories key", ErrInvalidResponse)
	}

	return decoded.Repositories, nil
}

// AnalyzeCodeStyle profiles coding patterns per repository. A failed
// repository becomes an error entry rather than aborting the run.
func (a *Analyzer) AnalyzeCodeStyle(ctx context.Context, sources map[string]*structure.RepoStructure) map[string]any {
	results := make(map[string]any, len(sources))

	for _, name := range sortedKeys(sources) {
		repoJSON, err := marshalIndent(sources[name])
		if err != nil {
			results[name] = errorEntry(err)
			continue
		}

		result, err := a.GenerateJSON(ctx, codeStylePrompt(name, repoJSON))
		if err != nil {
			results[name] = errorEntry(err)
			continue
		}
		results[name] = result
	}

	return results
}

// AnalyzeProjectPreferences profiles technology choices per repository.
func (a *Analyzer) AnalyzeProjectPreferences(ctx context.Context, sources map[string]*structure.RepoStructure) map[string]any {
	results := make(map[string]any, len(sources))

	for _, name := range sortedKeys(sources) {
		rs := sources[name]

		coreFiles := map[string]string{}
		configFiles := map[string]string{}
		if rs.Samples != nil {
			coreFiles = rs.Samples.CoreFiles
			configFiles = rs.Samples.ConfigFiles
		}

		structureJSON, err := marshalIndent(rs.Structure)
		if err != nil {
			results[name] = errorEntry(err)
			continue
		}
		configJSON, _ := marshalIndent(configFiles)
		coreJSON, _ := marshalIndent(coreFiles)
		packageJSON, _ := marshalIndent(rs.Documentation.PackageInfo)

		prompt := projectPreferencesPrompt(name, rs.Languages, structureJSON, configJSON, coreJSON, packageJSON)

		result, err := a.GenerateJSON(ctx, prompt)
		if err != nil {
			results[name] = errorEntry(err)
			continue
		}
		results[name] = result
	}

	return results
}

// AnalyzeEvolution runs the temporal evolution analysis over sampled file
// revisions, one repository at a time.
func (a *Analyzer) AnalyzeEvolution(ctx context.Context, contents map[string]EvolutionData) map[string]any {
	results := make(map[string]any, len(contents))

	for _, name := range sortedKeys(contents) {
		data := contents[name]
		if data.Evolution.CommitCount == 0 {
			continue
		}

		evolutionJSON, err := marshalIndent(data)
		if err != nil {
			results[name] = errorEntry(err)
			continue
		}

		result, err := a.GenerateJSON(ctx, temporalPrompt(name, evolutionJSON))
		if err != nil {
			results[name] = errorEntry(err)
			continue
		}
		results[name] = result
	}

	return results
}

// CalculateIdentityConfidence synthesizes all prior analyses into the final
// identity profile.
func (a *Analyzer) CalculateIdentityConfidence(
	ctx context.Context,
	sources map[string]*structure.RepoStructure,
	codeStyle map[string]any,
	preferences map[string]any,
	temporal *TemporalAnalysis,
) (map[string]any, error) {
	analysisData := map[string]any{
		"repositories":        sources,
		"code_style_analysis": codeStyle,
		"project_preferences": preferences,
		"temporal_patterns":   temporal,
	}

	analysisJSON, err := marshalIndent(analysisData)
	if err != nil {
		return nil, err
	}

	return a.GenerateJSON(ctx, identityPrompt(analysisJSON))
}

// stripMarkdownFences removes a surrounding ```json ... ``` block if present.
func stripMarkdownFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	if idx := strings.Index(cleaned, "\n"); idx >= 0 {
		cleaned = cleaned[idx+1:]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

func marshalIndent(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode prompt data: %w", err)
	}
	return string(data), nil
}

func errorEntry(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
