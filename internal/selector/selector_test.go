package selector

import (
	"testing"
	"time"

	"github.com/stylo-labs/stylo/internal/ingest/git"
	"github.com/stylo-labs/stylo/internal/ingest/github"
	"github.com/stylo-labs/stylo/internal/report"
)

func testCommit(hash string, at time.Time) git.Commit {
	return git.Commit{
		Hash:        hash,
		CommittedAt: at,
	}
}

func testAuthorship(path string, shares map[string]float64) *git.FileAuthorship {
	return &git.FileAuthorship{Path: path, Shares: shares}
}

func TestOwnerOnly(t *testing.T) {
	rep := &report.Report{
		Contributors: []github.RepoContributors{
			{Repo: "solo", Contributors: []string{"alice"}},
			{Repo: "shared", Contributors: []string{"alice", "bob"}},
			{Repo: "other", Contributors: []string{"bob"}},
		},
	}

	repos := OwnerOnly(rep, "alice")
	if len(repos) != 1 || repos[0] != "solo" {
		t.Errorf("Expected [solo], got %v", repos)
	}
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	commits := []git.Commit{
		testCommit("a", now.AddDate(0, 0, -10)),
		testCommit("b", now.AddDate(0, 0, -5)),
	}
	reported := []github.CommitRecord{
		{Commit: github.CommitDetail{Author: github.CommitIdentity{Date: now}}},
	}

	stats := computeStats(commits, reported)

	if stats.CommitCount != 3 {
		t.Errorf("Expected 3 commits, got %d", stats.CommitCount)
	}
	if !stats.FirstCommit.Equal(now.AddDate(0, 0, -10)) {
		t.Errorf("Unexpected first commit: %v", stats.FirstCommit)
	}
	if !stats.LastCommit.Equal(now) {
		t.Errorf("Unexpected last commit: %v", stats.LastCommit)
	}
	if stats.ActiveDays != 11 {
		t.Errorf("Expected 11 active days, got %d", stats.ActiveDays)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := computeStats(nil, nil)
	if stats.CommitCount != 0 || stats.ActiveDays != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}

func TestContributionFiles(t *testing.T) {
	authorship := map[string]*git.FileAuthorship{
		"main.go":              testAuthorship("main.go", map[string]float64{"alice": 90, "bob": 10}),
		"internal/util.go":     testAuthorship("internal/util.go", map[string]float64{"alice": 15}),
		"node_modules/dep.js":  testAuthorship("node_modules/dep.js", map[string]float64{"alice": 100}),
		"pkg/handler.go":       testAuthorship("pkg/handler.go", map[string]float64{"alice": 50}),
		"docs/img/diagram.png": testAuthorship("docs/img/diagram.png", map[string]float64{"alice": 100}),
	}

	files := contributionFiles(authorship, "alice", 20)

	if len(files) != 2 {
		t.Fatalf("Expected 2 contribution files, got %d: %+v", len(files), files)
	}
	if files[0].Path != "main.go" || files[1].Path != "pkg/handler.go" {
		t.Errorf("Unexpected files: %+v", files)
	}
	if files[0].Share != 90 {
		t.Errorf("Expected 90%% share for main.go, got %v", files[0].Share)
	}
}

func TestScore_Components(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Fresh, busy, heavily-authored repo should hit all three caps
	high := Candidate{
		Stats: RepoStats{
			LastCommit:    now,
			CommitCount:   100,
			CommitsPerDay: 5,
		},
		ContributionFiles: []ContributionFile{
			{Path: "a.go", Share: 100}, {Path: "b.go", Share: 100},
			{Path: "c.go", Share: 100}, {Path: "d.go", Share: 100},
			{Path: "e.go", Share: 100}, {Path: "f.go", Share: 100},
			{Path: "g.go", Share: 100}, {Path: "h.go", Share: 100},
		},
	}

	if got := score(high, cfg, now); got != 100 {
		t.Errorf("Expected max score 100, got %v", got)
	}

	// A repo idle for years earns no recency points
	stale := Candidate{
		Stats: RepoStats{
			LastCommit:  now.AddDate(-5, 0, 0),
			CommitCount: 1,
		},
	}
	got := score(stale, cfg, now)
	if got >= cfg.RecencyMax {
		t.Errorf("Stale repo scored too high: %v", got)
	}

	// Fallback path: commit count / 2, capped at half the contribution max
	fallback := Candidate{
		Stats: RepoStats{
			LastCommit:    now,
			CommitCount:   100,
			CommitsPerDay: 1,
		},
	}
	want := cfg.RecencyMax + cfg.ActivityMax + cfg.ContributionMax/2
	if got := score(fallback, cfg, now); got != want {
		t.Errorf("Expected fallback score %v, got %v", want, got)
	}
}

func TestSelect(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rep := &report.Report{
		Login: "alice",
		Contributors: []github.RepoContributors{
			{Repo: "active", Contributors: []string{"alice", "bob"}},
			{Repo: "solo", Contributors: []string{"alice"}},
			{Repo: "dormant", Contributors: []string{"alice"}},
		},
		Commits: map[string][]github.CommitRecord{
			"active": {
				{Commit: github.CommitDetail{Author: github.CommitIdentity{Date: now.AddDate(0, 0, -1)}}},
				{Commit: github.CommitDetail{Author: github.CommitIdentity{Date: now.AddDate(0, 0, -2)}}},
			},
			"solo": {
				{Commit: github.CommitDetail{Author: github.CommitIdentity{Date: now.AddDate(-3, 0, 0)}}},
			},
		},
	}

	repos := map[string]RepoData{
		"active": {
			Authorship: map[string]*git.FileAuthorship{
				"main.go": testAuthorship("main.go", map[string]float64{"alice": 80}),
			},
		},
	}

	cfg := DefaultConfig()
	cfg.MaxRepos = 1

	sel := Select(rep, repos, "alice", cfg, now)

	// "active" wins the scored slot; "solo" and "dormant" enter via the
	// single-contributor rule despite the cap
	if len(sel.Repos) != 3 {
		t.Fatalf("Expected 3 repos, got %v", sel.Repos)
	}
	if sel.Repos[0] != "active" || sel.Repos[1] != "dormant" || sel.Repos[2] != "solo" {
		t.Errorf("Unexpected selection: %v", sel.Repos)
	}

	meta, ok := sel.Metadata["active"]
	if !ok {
		t.Fatal("Expected metadata for active")
	}
	if meta.Score == 0 {
		t.Error("Expected non-zero score for active")
	}
	if len(meta.ContributionFiles) != 1 {
		t.Errorf("Expected 1 contribution file, got %d", len(meta.ContributionFiles))
	}
}

func TestSelect_MaxRepos(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rep := &report.Report{
		Login:   "alice",
		Commits: map[string][]github.CommitRecord{},
	}
	for _, name := range []string{"r1", "r2", "r3", "r4"} {
		rep.Commits[name] = []github.CommitRecord{
			{Commit: github.CommitDetail{Author: github.CommitIdentity{Date: now}}},
		}
	}

	cfg := DefaultConfig()
	cfg.MaxRepos = 2

	sel := Select(rep, nil, "alice", cfg, now)
	if len(sel.Repos) != 2 {
		t.Errorf("Expected 2 repos, got %v", sel.Repos)
	}
}
