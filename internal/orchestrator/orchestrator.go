// Package orchestrator wires the acquisition, selection, structure, and
// analysis stages into the three top-level pipelines behind the CLI:
// fetch, analyze, and compare.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	gogit "github.com/go-git/go-git/v6"
	"github.com/stylo-labs/stylo/internal/ingest/git"
	"github.com/stylo-labs/stylo/internal/ingest/github"
	"github.com/stylo-labs/stylo/internal/profilestore"
	"github.com/stylo-labs/stylo/internal/report"
	"github.com/stylo-labs/stylo/internal/selector"
	"github.com/stylo-labs/stylo/internal/structure"
	"github.com/stylo-labs/stylo/internal/stylometry"
)

var (
	ErrNoRepositories  = errors.New("no repositories selected for analysis")
	ErrProfileNotFound = errors.New("stylometric profile not found; run analyze first")
	ErrNoLLM           = errors.New("no LLM configured")
)

// Embedding model used for profile similarity
const (
	embeddingModel     = "text-embedding-3-large"
	embeddingDimension = 3072
)

// Options configures a pipeline run.
type Options struct {
	// BasePath is the root output directory (default "out")
	BasePath string

	// MaxRepos caps how many repositories are fetched and scored
	MaxRepos int

	// Shallow clones with depth 1, trading history depth for speed
	Shallow bool

	// Selector picks the selection strategy: "scored" or "owner-only"
	Selector string

	// Verbose enables per-repository progress lines
	Verbose bool
}

// Orchestrator runs the fetch, analyze, and compare pipelines.
type Orchestrator struct {
	opts     Options
	analyzer *stylometry.Analyzer
	out      io.Writer
}

// New creates an orchestrator. The LLM may be nil for fetch-only use.
func New(opts Options, llm stylometry.LLM) *Orchestrator {
	if opts.BasePath == "" {
		opts.BasePath = "out"
	}
	if opts.Selector == "" {
		opts.Selector = "scored"
	}

	o := &Orchestrator{
		opts: opts,
		out:  os.Stdout,
	}
	if llm != nil {
		o.analyzer = stylometry.NewAnalyzer(llm)
	}
	return o
}

// SetOutput redirects progress output, used by tests.
func (o *Orchestrator) SetOutput(w io.Writer) {
	o.out = w
}

func (o *Orchestrator) printf(format string, args ...any) {
	fmt.Fprintf(o.out, format+"\n", args...)
}

func (o *Orchestrator) verbosef(format string, args ...any) {
	if o.opts.Verbose {
		o.printf(format, args...)
	}
}

// Fetch scrapes the user's GitHub footprint, clones their repositories, and
// writes report.json. The token falls back to GITHUB_TOKEN when empty.
func (o *Orchestrator) Fetch(ctx context.Context, username, token string) (*report.Report, error) {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	client := github.NewClient(token)

	profile, err := github.GetProfile(ctx, client, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", username, err)
	}

	repos, err := github.ListRepositories(ctx, client, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	if _, err := report.EnsureUserDir(o.opts.BasePath, username); err != nil {
		return nil, err
	}

	rep := &report.Report{
		Login:     username,
		Profile:   profile,
		Repos:     repos,
		Commits:   make(map[string][]github.CommitRecord),
		FetchedAt: time.Now().UTC(),
	}

	depth := 0
	if o.opts.Shallow {
		depth = 1
	}

	processed := 0
	for _, r := range repos {
		// Forks and archives carry mostly non-original code
		if r.Fork || r.Archived {
			o.verbosef("Skipping %s (fork or archived)", r.Name)
			continue
		}
		if o.opts.MaxRepos > 0 && processed >= o.opts.MaxRepos {
			break
		}
		processed++

		o.printf("Fetching %s/%s", username, r.Name)

		contributors, err := github.ListContributors(ctx, client, username, r.Name)
		if err != nil {
			o.printf("Warning: failed to list contributors for %s: %v", r.Name, err)
		} else {
			rep.Contributors = append(rep.Contributors, github.RepoContributors{
				Repo:         r.Name,
				Contributors: contributors,
			})
		}

		commits, err := github.ListUserCommits(ctx, client, username, r.Name, username)
		if err != nil {
			o.printf("Warning: failed to list commits for %s: %v", r.Name, err)
		} else if len(commits) > 0 {
			rep.Commits[r.Name] = commits
		}

		clonePath := report.RepoDir(o.opts.BasePath, username, r.Name)
		if _, err := os.Stat(clonePath); err == nil {
			o.verbosef("Clone for %s already exists, skipping", r.Name)
			continue
		}

		if _, err := git.CloneToDisk(ctx, r.CloneURL, clonePath, depth); err != nil {
			o.printf("Warning: failed to clone %s: %v", r.Name, err)
		}
	}

	if err := rep.Save(o.opts.BasePath); err != nil {
		return nil, err
	}

	o.printf("Report saved to %s", report.ReportPath(o.opts.BasePath, username))
	return rep, nil
}

// Analyze runs the full stylometric pipeline over a fetched user directory
// and writes the structure snapshot, temporal inspection data, and profile.
func (o *Orchestrator) Analyze(ctx context.Context, username string) (*stylometry.StylometricProfile, error) {
	if o.analyzer == nil {
		return nil, ErrNoLLM
	}

	rep, err := report.Load(o.opts.BasePath, username)
	if err != nil {
		return nil, err
	}

	// Parse every available clone once; patches are kept because the
	// evolution sampling reads them later
	repoData := make(map[string]selector.RepoData)
	openRepos := make(map[string]*gogit.Repository)
	for _, r := range rep.Repos {
		path := report.RepoDir(o.opts.BasePath, username, r.Name)
		repoObj, err := git.OpenRepository(path)
		if err != nil {
			continue
		}

		commits, err := git.ParseCommits(repoObj, 0, true)
		if err != nil {
			o.printf("Warning: failed to parse history of %s: %v", r.Name, err)
			continue
		}

		repoData[r.Name] = selector.RepoData{
			Commits:    commits,
			Authorship: git.ComputeAuthorship(commits),
		}
		openRepos[r.Name] = repoObj
	}

	selected := o.selectRepositories(rep, repoData, username)
	if len(selected) == 0 {
		return nil, ErrNoRepositories
	}
	o.printf("Selected %d repositories for analysis", len(selected))

	// Structure snapshots
	sources := make(map[string]*structure.RepoStructure)
	for _, name := range selected {
		path := report.RepoDir(o.opts.BasePath, username, name)
		rs, err := structure.Analyze(path)
		if err != nil {
			o.printf("Warning: failed to analyze structure of %s: %v", name, err)
			continue
		}
		sources[name] = rs
		o.verbosef("Structure extracted for %s (%d files)", name, rs.FileStats.FileCount)
	}
	if len(sources) == 0 {
		return nil, ErrNoRepositories
	}

	// LLM file selection and sample extraction
	o.printf("Selecting files for analysis")
	filtered := make(map[string]structure.TreeNode, len(sources))
	for name, rs := range sources {
		filtered[name] = structure.FilterLargeFiles(rs.Structure, structure.DefaultMaxFileSize)
	}

	selections, err := o.analyzer.SelectFiles(ctx, filtered)
	if err != nil {
		// Analyses still run on structure alone when selection fails
		o.printf("Warning: file selection failed, continuing without samples: %v", err)
	} else {
		for name, rs := range sources {
			path := report.RepoDir(o.opts.BasePath, username, name)
			rs.ApplySelection(path, selections[name], structure.DefaultMaxFileSize)
		}
	}

	structurePath := report.StructurePath(o.opts.BasePath, username)
	if err := report.SaveJSON(structurePath, map[string]any{"stylometry_repo_structure": sources}); err != nil {
		return nil, err
	}
	o.printf("Structure snapshot saved to %s", structurePath)

	// Temporal evolution inputs
	contents := o.collectEvolutionData(rep, sources, repoData, openRepos)

	inspection := stylometry.InspectionData{
		TemporalTargets: sortedNames(contents),
		CommitContents:  contents,
	}
	temporalPath := report.TemporalPath(o.opts.BasePath, username)
	if err := report.SaveJSON(temporalPath, inspection); err != nil {
		o.printf("Warning: failed to save temporal inspection data: %v", err)
	}

	// Analysis stages
	o.printf("Analyzing code style patterns")
	codeStyle := o.analyzer.AnalyzeCodeStyle(ctx, sources)

	o.printf("Analyzing temporal patterns")
	evolution := o.analyzer.AnalyzeEvolution(ctx, contents)
	temporal := &stylometry.TemporalAnalysis{
		CommitStyleMetrics: evolution,
		ActivityPatterns:   stylometry.AnalyzeActivity(commitTimes(rep)),
	}

	o.printf("Analyzing project preferences")
	preferences := o.analyzer.AnalyzeProjectPreferences(ctx, sources)

	o.printf("Calculating identity confidence")
	identity, err := o.analyzer.CalculateIdentityConfidence(ctx, sources, codeStyle, preferences, temporal)
	if err != nil {
		o.printf("Warning: identity confidence calculation failed: %v", err)
		identity = map[string]any{"error": err.Error()}
	}

	profile := &stylometry.StylometricProfile{
		CodeStyleMetrics:   codeStyle,
		TemporalPatterns:   temporal,
		ProjectPreferences: preferences,
		IdentityConfidence: identity,
	}

	profilePath := report.ProfilePath(o.opts.BasePath, username)
	if err := report.SaveJSON(profilePath, map[string]any{"stylometric_profile": profile}); err != nil {
		return nil, err
	}
	o.printf("Profile saved to %s", profilePath)

	return profile, nil
}

// CompareResult is the outcome of a similarity search.
type CompareResult struct {
	Profiles []profilestore.SimilarProfile
	Indexed  bool
}

// Compare embeds the user's stored profile and searches the Milvus
// collection for the most similar developers.
func (o *Orchestrator) Compare(ctx context.Context, username string, topK int, reindex bool) (*CompareResult, error) {
	profile, err := LoadProfile(o.opts.BasePath, username)
	if err != nil {
		return nil, err
	}

	summary := profilestore.BuildSummary(username, profile)

	embedder, err := profilestore.NewOpenAIEmbedder(embeddingModel, embeddingDimension)
	if err != nil {
		return nil, err
	}

	vectors, err := embedder.Embed(ctx, []string{summary})
	if err != nil {
		return nil, err
	}

	store, err := profilestore.NewMilvusStore(ctx, profilestore.DefaultMilvusConfig())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	exists, err := store.Exists(ctx, []string{username})
	if err != nil {
		return nil, err
	}

	indexed := false
	if reindex || !exists[username] {
		if exists[username] {
			if err := store.Delete(ctx, []string{username}); err != nil {
				return nil, err
			}
		}

		record := profilestore.ProfileRecord{
			Username:   username,
			Summary:    summary,
			RepoCount:  len(profile.CodeStyleMetrics),
			AnalyzedAt: time.Now().UTC(),
		}
		if err := store.Insert(ctx, record, vectors[0]); err != nil {
			return nil, err
		}
		indexed = true
		o.verbosef("Indexed profile for %s", username)
	}

	hits, err := store.Search(ctx, vectors[0], topK, username)
	if err != nil {
		return nil, err
	}

	return &CompareResult{Profiles: hits, Indexed: indexed}, nil
}

// LoadProfile reads a previously generated stylometry_profile.json.
func LoadProfile(basePath, username string) (*stylometry.StylometricProfile, error) {
	data, err := os.ReadFile(report.ProfilePath(basePath, username))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, username)
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var doc struct {
		Profile *stylometry.StylometricProfile `json:"stylometric_profile"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if doc.Profile == nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, username)
	}

	return doc.Profile, nil
}

// selectRepositories applies the configured selection strategy.
func (o *Orchestrator) selectRepositories(rep *report.Report, repoData map[string]selector.RepoData, username string) []string {
	if o.opts.Selector == "owner-only" {
		return selector.OwnerOnly(rep, username)
	}

	cfg := selector.DefaultConfig()
	if o.opts.MaxRepos > 0 {
		cfg.MaxRepos = o.opts.MaxRepos
	}

	sel := selector.Select(rep, repoData, username, cfg, time.Now())
	return sel.Repos
}

// collectEvolutionData samples core-file revisions for repositories with
// enough history to support the temporal evolution analysis.
func (o *Orchestrator) collectEvolutionData(
	rep *report.Report,
	sources map[string]*structure.RepoStructure,
	repoData map[string]selector.RepoData,
	openRepos map[string]*gogit.Repository,
) map[string]stylometry.EvolutionData {
	candidates := make(map[string]stylometry.TemporalCandidate, len(sources))
	for name, rs := range sources {
		candidates[name] = stylometry.TemporalCandidate{
			CommitCount: len(rep.Commits[name]),
			FileCount:   rs.FileStats.FileCount,
		}
	}

	contents := make(map[string]stylometry.EvolutionData)
	for _, name := range stylometry.SelectTemporalTargets(candidates) {
		rs := sources[name]
		if rs.Samples == nil || len(rs.Samples.CoreFiles) == 0 {
			continue
		}
		repoObj, ok := openRepos[name]
		if !ok {
			continue
		}

		byFile := make(map[string][]git.FileRevision)
		total := 0
		var coreFiles []string
		for path := range rs.Samples.CoreFiles {
			coreFiles = append(coreFiles, path)

			revisions, err := git.FileHistory(repoObj, repoData[name].Commits, path, maxEvolutionDiffLines)
			if err != nil || len(revisions) == 0 {
				continue
			}
			byFile[path] = revisions
			total += len(revisions)
		}

		if total == 0 {
			continue
		}
		sort.Strings(coreFiles)

		contents[name] = stylometry.EvolutionData{
			CoreFiles: coreFiles,
			Evolution: stylometry.FileEvolution{
				CommitCount:   total,
				CommitsByFile: byFile,
			},
		}
		o.verbosef("Sampled %d revisions for %s", total, name)
	}

	return contents
}

const maxEvolutionDiffLines = 100

func sortedNames(contents map[string]stylometry.EvolutionData) []string {
	names := make([]string, 0, len(contents))
	for name := range contents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// commitTimes flattens all reported commit timestamps.
func commitTimes(rep *report.Report) []time.Time {
	var times []time.Time
	for _, commits := range rep.Commits {
		for _, c := range commits {
			if !c.Commit.Author.Date.IsZero() {
				times = append(times, c.Commit.Author.Date)
			}
		}
	}
	return times
}
