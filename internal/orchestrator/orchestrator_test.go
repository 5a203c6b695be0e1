package orchestrator

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stylo-labs/stylo/internal/ingest/github"
	"github.com/stylo-labs/stylo/internal/report"
	"github.com/stylo-labs/stylo/internal/stylometry"
)

// writeFakeClone lays out a repository working tree on disk. The analysis
// pipeline tolerates clones without git history, so plain files suffice.
func writeFakeClone(t *testing.T, base, username, repo string) string {
	t.Helper()

	dir := report.RepoDir(base, username, repo)
	files := map[string]string{
		"README.md": "# Widget\n",
		"go.mod":    "module example.com/widget\n",
		"main.go":   "package main\n\nfunc main() {}\n",
		"util.go":   "package main\n\nfunc helper() int { return 1 }\n",
	}

	for name, content := range files {
		full := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	return dir
}

func writeFakeReport(t *testing.T, base, username string) *report.Report {
	t.Helper()

	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	rep := &report.Report{
		Login: username,
		Repos: []github.Repository{
			{Name: "widget", FullName: username + "/widget"},
		},
		Contributors: []github.RepoContributors{
			{Repo: "widget", Contributors: []string{username}},
		},
		Commits: map[string][]github.CommitRecord{
			"widget": {
				{SHA: "a1", Commit: github.CommitDetail{Author: github.CommitIdentity{Name: username, Date: now}}},
				{SHA: "a2", Commit: github.CommitDetail{Author: github.CommitIdentity{Name: username, Date: now.Add(2 * time.Hour)}}},
			},
		},
		FetchedAt: now,
	}

	if err := rep.Save(base); err != nil {
		t.Fatalf("Failed to save report: %v", err)
	}
	return rep
}

func TestAnalyzePipeline(t *testing.T) {
	base := t.TempDir()
	username := "alice"

	writeFakeClone(t, base, username, "widget")
	writeFakeReport(t, base, username)

	llm := stylometry.NewMockLLM(`{
		"repositories": {
			"widget": {
				"core_files": ["main.go"],
				"secondary_files": ["util.go"],
				"config_files": ["go.mod"]
			}
		}
	}`)

	o := New(Options{BasePath: base, Selector: "owner-only"}, llm)
	o.SetOutput(io.Discard)

	profile, err := o.Analyze(context.Background(), username)
	if err != nil {
		t.Fatalf("Failed to analyze: %v", err)
	}

	if _, ok := profile.CodeStyleMetrics["widget"]; !ok {
		t.Error("Expected code style entry for widget")
	}
	if profile.TemporalPatterns == nil {
		t.Fatal("Expected temporal patterns")
	}
	if profile.TemporalPatterns.ActivityPatterns.Frequency.CommitsPerDay == 0 {
		t.Error("Expected non-zero commit rate from report commits")
	}

	// Output documents must exist
	for _, path := range []string{
		report.StructurePath(base, username),
		report.TemporalPath(base, username),
		report.ProfilePath(base, username),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected output file %s: %v", path, err)
		}
	}

	// The saved profile must round-trip through LoadProfile
	loaded, err := LoadProfile(base, username)
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}
	if loaded.TemporalPatterns == nil {
		t.Error("Loaded profile missing temporal patterns")
	}
}

func TestAnalyze_FileSelectionFailureContinues(t *testing.T) {
	base := t.TempDir()
	username := "alice"

	writeFakeClone(t, base, username, "widget")
	writeFakeReport(t, base, username)

	// Mock returns a bare object: file selection fails (no repositories
	// key) but the per-repo analyses still parse it
	o := New(Options{BasePath: base, Selector: "owner-only"}, stylometry.NewMockLLM("{}"))
	o.SetOutput(io.Discard)

	profile, err := o.Analyze(context.Background(), username)
	if err != nil {
		t.Fatalf("Expected pipeline to continue, got %v", err)
	}
	if _, ok := profile.CodeStyleMetrics["widget"]; !ok {
		t.Error("Expected code style entry despite failed file selection")
	}
}

func TestAnalyze_MissingReport(t *testing.T) {
	o := New(Options{BasePath: t.TempDir()}, stylometry.NewMockLLM("{}"))
	o.SetOutput(io.Discard)

	_, err := o.Analyze(context.Background(), "nobody")
	if !errors.Is(err, report.ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}
}

func TestAnalyze_NoLLM(t *testing.T) {
	o := New(Options{BasePath: t.TempDir()}, nil)
	o.SetOutput(io.Discard)

	_, err := o.Analyze(context.Background(), "alice")
	if !errors.Is(err, ErrNoLLM) {
		t.Errorf("Expected ErrNoLLM, got %v", err)
	}
}

func TestAnalyze_NoSelectedRepos(t *testing.T) {
	base := t.TempDir()
	username := "alice"

	rep := &report.Report{
		Login: username,
		Contributors: []github.RepoContributors{
			{Repo: "shared", Contributors: []string{username, "bob"}},
		},
		Commits:   map[string][]github.CommitRecord{},
		FetchedAt: time.Now(),
	}
	if _, err := report.EnsureUserDir(base, username); err != nil {
		t.Fatalf("Failed to create user dir: %v", err)
	}
	if err := rep.Save(base); err != nil {
		t.Fatalf("Failed to save report: %v", err)
	}

	o := New(Options{BasePath: base, Selector: "owner-only"}, stylometry.NewMockLLM("{}"))
	o.SetOutput(io.Discard)

	_, err := o.Analyze(context.Background(), username)
	if !errors.Is(err, ErrNoRepositories) {
		t.Errorf("Expected ErrNoRepositories, got %v", err)
	}
}

func TestLoadProfile_Missing(t *testing.T) {
	_, err := LoadProfile(t.TempDir(), "nobody")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Expected ErrProfileNotFound, got %v", err)
	}
}

func TestCompare_MissingProfile(t *testing.T) {
	o := New(Options{BasePath: t.TempDir()}, nil)
	o.SetOutput(io.Discard)

	_, err := o.Compare(context.Background(), "nobody", 5, false)
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Expected ErrProfileNotFound, got %v", err)
	}
}

// TestFetchIntegration exercises the live GitHub API when a token is set.
func TestFetchIntegration(t *testing.T) {
	if os.Getenv("GITHUB_TOKEN") == "" {
		t.Skip("Skipping integration test: GITHUB_TOKEN not set")
	}

	base := t.TempDir()
	o := New(Options{BasePath: base, MaxRepos: 1, Shallow: true}, nil)
	o.SetOutput(io.Discard)

	rep, err := o.Fetch(context.Background(), "octocat", "")
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}
	if rep.Profile == nil || rep.Profile.Login != "octocat" {
		t.Errorf("Unexpected profile: %+v", rep.Profile)
	}

	if _, err := os.Stat(report.ReportPath(base, "octocat")); err != nil {
		t.Errorf("Expected report.json: %v", err)
	}
}
