package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/stylo-labs/stylo/internal/orchestrator"
)

var (
	compareBasePath string
	compareTopK     int
	compareReindex  bool
	compareVerbose  bool
)

var compareCmd = &cobra.Command{
	Use:   "compare [username]",
	Short: "Find developers with similar stylometric profiles",
	Long: `Compare a user's stylometric profile against previously indexed
profiles. The profile summary is embedded with OpenAI and searched in a
Milvus collection by cosine similarity; high-scoring matches across
different accounts suggest the same person.

Requires OPENAI_API_KEY for embeddings and a reachable Milvus instance
(MILVUS_ADDRESS, default localhost:19530). The user's own profile is
indexed on first use; --reindex replaces it.

Examples:
  stylo compare octocat
  stylo compare octocat --topk 10 --reindex`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&compareBasePath, "base-path", "out", "Output directory root")
	compareCmd.Flags().IntVar(&compareTopK, "topk", 5, "Number of similar profiles to return")
	compareCmd.Flags().BoolVar(&compareReindex, "reindex", false, "Replace the user's stored profile before searching")
	compareCmd.Flags().BoolVar(&compareVerbose, "verbose", false, "Print indexing progress")
}

func runCompare(cmd *cobra.Command, args []string) error {
	username := args[0]

	o := orchestrator.New(orchestrator.Options{
		BasePath: compareBasePath,
		Verbose:  compareVerbose,
	}, nil)

	result, err := o.Compare(context.Background(), username, compareTopK, compareReindex)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if result.Indexed {
		fmt.Printf("✓ Indexed profile for %s\n", username)
	}

	if len(result.Profiles) == 0 {
		fmt.Println("No similar profiles found")
		return nil
	}

	outputSimilarityTable(result)
	return nil
}

func outputSimilarityTable(result *orchestrator.CompareResult) {
	var (
		headerColor = lipgloss.Color("#F780FF") // Bright pink/magenta
		userColor   = lipgloss.Color("#BD93F9") // Purple
		numberColor = lipgloss.Color("#FF79C6") // Pink
		dateColor   = lipgloss.Color("#E9E9F4") // Light purple/white
		borderColor = lipgloss.Color("#6272A4") // Muted purple
	)

	const (
		userWidth  = 24
		scoreWidth = 10
		repoWidth  = 8
		dateWidth  = 20
	)

	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true).
		Padding(0, 1)

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	headers := []string{
		headerStyle.Width(userWidth).Render("USER"),
		headerStyle.Width(scoreWidth).Render("SCORE"),
		headerStyle.Width(repoWidth).Render("REPOS"),
		headerStyle.Width(dateWidth).Render("ANALYZED"),
	}
	fmt.Println(strings.Join(headers, borderStyle.Render("│")))

	separatorParts := []string{
		strings.Repeat("─", userWidth),
		strings.Repeat("─", scoreWidth),
		strings.Repeat("─", repoWidth),
		strings.Repeat("─", dateWidth),
	}
	fmt.Println(borderStyle.Render(strings.Join(separatorParts, "┼")))

	userStyle := lipgloss.NewStyle().
		Foreground(userColor).
		Padding(0, 1).
		Width(userWidth)

	scoreStyle := lipgloss.NewStyle().
		Foreground(numberColor).
		Padding(0, 1).
		Width(scoreWidth).
		Align(lipgloss.Right)

	repoStyle := lipgloss.NewStyle().
		Foreground(numberColor).
		Padding(0, 1).
		Width(repoWidth).
		Align(lipgloss.Right)

	dateStyle := lipgloss.NewStyle().
		Foreground(dateColor).
		Padding(0, 1).
		Width(dateWidth)

	for _, hit := range result.Profiles {
		cells := []string{
			userStyle.Render(hit.Username),
			scoreStyle.Render(fmt.Sprintf("%.3f", hit.Score)),
			repoStyle.Render(fmt.Sprintf("%d", hit.RepoCount)),
			dateStyle.Render(hit.AnalyzedAt.Format("Jan 02, 2006")),
		}
		fmt.Println(strings.Join(cells, borderStyle.Render("│")))
	}
}
