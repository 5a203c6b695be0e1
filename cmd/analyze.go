package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/stylo-labs/stylo/internal/orchestrator"
	"github.com/stylo-labs/stylo/internal/stylometry"
)

var (
	analyzeBasePath string
	analyzeSelector string
	analyzeExport   string
	analyzeVerbose  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [username]",
	Short: "Run the stylometric analysis over a fetched user",
	Long: `Analyze a previously fetched GitHub user: select their most
representative repositories, extract structure and code samples, and run
the LLM analyses (code style, temporal evolution, project preferences,
identity confidence).

The provider is chosen with STYLO_LLM_PROVIDER (gemini or openai, default
gemini) and authenticated with GEMINI_API_KEY or OPENAI_API_KEY.

Writes stylometry_repo_structure.json, temporal_analysis_contents.json,
and stylometry_profile.json under <base-path>/<username>/.

Examples:
  stylo analyze octocat
  stylo analyze octocat --selector owner-only --export profile.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeBasePath, "base-path", "out", "Output directory root")
	analyzeCmd.Flags().StringVar(&analyzeSelector, "selector", "scored", "Repository selection strategy: scored or owner-only")
	analyzeCmd.Flags().StringVar(&analyzeExport, "export", "", "Export the profile to a JSON file: --export <filename>")
	analyzeCmd.Flags().BoolVar(&analyzeVerbose, "verbose", false, "Print per-repository progress")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	username := args[0]

	llm, err := stylometry.NewLLM(stylometry.DefaultLLMConfig())
	if err != nil {
		return err
	}

	o := orchestrator.New(orchestrator.Options{
		BasePath: analyzeBasePath,
		Selector: analyzeSelector,
		Verbose:  analyzeVerbose,
	}, llm)

	profile, err := o.Analyze(context.Background(), username)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeExport != "" {
		if err := exportProfile(profile, analyzeExport); err != nil {
			return err
		}
	}

	outputProfileSummary(username, profile)
	return nil
}

func exportProfile(profile *stylometry.StylometricProfile, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"stylometric_profile": profile}); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("✓ Exported profile to %s\n", filename)
	return nil
}

func outputProfileSummary(username string, profile *stylometry.StylometricProfile) {
	// LipGloss signature purple/pink palette
	var (
		headerColor  = lipgloss.Color("#F780FF") // Bright pink/magenta
		sectionColor = lipgloss.Color("#BD93F9") // Purple
		numberColor  = lipgloss.Color("#FF79C6") // Pink
		detailColor  = lipgloss.Color("#E9E9F4") // Light purple/white
		borderColor  = lipgloss.Color("#6272A4") // Muted purple
		summaryColor = lipgloss.Color("#8BE9FD") // Cyan accent
	)

	const (
		sectionWidth = 24
		countWidth   = 8
		detailWidth  = 44
	)

	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true).
		Padding(0, 1)

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	headers := []string{
		headerStyle.Width(sectionWidth).Render("ANALYSIS"),
		headerStyle.Width(countWidth).Render("REPOS"),
		headerStyle.Width(detailWidth).Render("DETAIL"),
	}
	fmt.Println(strings.Join(headers, borderStyle.Render("│")))

	separatorParts := []string{
		strings.Repeat("─", sectionWidth),
		strings.Repeat("─", countWidth),
		strings.Repeat("─", detailWidth),
	}
	fmt.Println(borderStyle.Render(strings.Join(separatorParts, "┼")))

	sectionStyle := lipgloss.NewStyle().
		Foreground(sectionColor).
		Padding(0, 1).
		Width(sectionWidth)

	countStyle := lipgloss.NewStyle().
		Foreground(numberColor).
		Padding(0, 1).
		Width(countWidth).
		Align(lipgloss.Right)

	detailStyle := lipgloss.NewStyle().
		Foreground(detailColor).
		Padding(0, 1).
		Width(detailWidth)

	temporalDetail := ""
	temporalCount := 0
	if profile.TemporalPatterns != nil {
		ap := profile.TemporalPatterns.ActivityPatterns
		temporalCount = len(profile.TemporalPatterns.CommitStyleMetrics)
		temporalDetail = fmt.Sprintf("%.2f commits/day, tz %s",
			ap.Frequency.CommitsPerDay, ap.Frequency.TimezoneHint)
	}

	rows := []struct {
		section string
		count   int
		detail  string
	}{
		{"Code style", len(profile.CodeStyleMetrics), analyzedRepos(profile.CodeStyleMetrics)},
		{"Temporal patterns", temporalCount, temporalDetail},
		{"Project preferences", len(profile.ProjectPreferences), analyzedRepos(profile.ProjectPreferences)},
		{"Identity confidence", 1, identityScore(profile.IdentityConfidence)},
	}

	for _, row := range rows {
		cells := []string{
			sectionStyle.Render(row.section),
			countStyle.Render(fmt.Sprintf("%d", row.count)),
			detailStyle.Render(row.detail),
		}
		fmt.Println(strings.Join(cells, borderStyle.Render("│")))
	}

	fmt.Println()
	summaryStyle := lipgloss.NewStyle().
		Foreground(summaryColor).
		Italic(true)
	fmt.Println(summaryStyle.Render(fmt.Sprintf("Stylometric profile complete for %s", username)))
}

// analyzedRepos renders the repository names in a per-repo result map
func analyzedRepos(results map[string]any) string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	joined := strings.Join(names, ", ")
	if len(joined) > 40 {
		joined = joined[:37] + "..."
	}
	return joined
}

// identityScore digs the overall confidence score out of the synthesis result
func identityScore(identity map[string]any) string {
	dp, ok := identity["developer_profile"].(map[string]any)
	if !ok {
		return ""
	}
	ic, ok := dp["identity_confidence"].(map[string]any)
	if !ok {
		return ""
	}
	score, ok := ic["overall_score"].(float64)
	if !ok {
		return ""
	}
	return fmt.Sprintf("overall score %.0f/100", score)
}
