package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/stylo-labs/stylo/internal/orchestrator"
)

var (
	fetchBasePath string
	fetchMaxRepos int
	fetchShallow  bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [username]",
	Short: "Scrape a GitHub user's profile, repositories, and commits",
	Long: `Fetch a GitHub user's public footprint: profile fields, repository list,
per-repository contributor sets and commit metadata, plus local clones of
their non-fork repositories.

Results are written to <base-path>/<username>/report.json with clones
alongside it. A GITHUB_TOKEN environment variable raises the API rate
limits and is strongly recommended.

Examples:
  stylo fetch octocat
  stylo fetch octocat --max-repos 10 --shallow`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchBasePath, "base-path", "out", "Output directory root")
	fetchCmd.Flags().IntVar(&fetchMaxRepos, "max-repos", 0, "Maximum repositories to fetch (0 = all)")
	fetchCmd.Flags().BoolVar(&fetchShallow, "shallow", false, "Clone with depth 1")
}

func runFetch(cmd *cobra.Command, args []string) error {
	username := args[0]

	o := orchestrator.New(orchestrator.Options{
		BasePath: fetchBasePath,
		MaxRepos: fetchMaxRepos,
		Shallow:  fetchShallow,
	}, nil)

	rep, err := o.Fetch(context.Background(), username, "")
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	totalCommits := 0
	for _, commits := range rep.Commits {
		totalCommits += len(commits)
	}

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8BE9FD")).
		Italic(true)

	name := username
	if rep.Profile != nil && rep.Profile.Name != "" {
		name = fmt.Sprintf("%s (%s)", rep.Profile.Name, username)
	}

	fmt.Println(summaryStyle.Render(fmt.Sprintf(
		"Fetched %s: %d repositories, %d commit records",
		name, len(rep.Repos), totalCommits)))

	return nil
}
