package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stylo-labs/stylo/internal/ingest/github"
)

func testReport() *Report {
	return &Report{
		Login: "alice",
		Profile: &github.Profile{
			Login:     "alice",
			Name:      "Alice Doe",
			CreatedAt: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		Repos: []github.Repository{
			{Name: "widget", Owner: "alice", Language: "Go"},
		},
		Contributors: []github.RepoContributors{
			{Repo: "widget", Contributors: []string{"alice"}},
		},
		Commits: map[string][]github.CommitRecord{
			"widget": {
				{SHA: "abc123", Commit: github.CommitDetail{
					Message: "initial commit",
					Author: github.CommitIdentity{
						Name: "Alice Doe", Email: "alice@example.com",
						Date: time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC),
					},
				}},
			},
		},
		FetchedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPaths(t *testing.T) {
	if got := UserDir("out", "alice"); got != filepath.Join("out", "alice") {
		t.Errorf("Unexpected user dir: %s", got)
	}
	if got := RepoDir("out", "alice", "widget"); got != filepath.Join("out", "alice", "alice_widget.git") {
		t.Errorf("Unexpected repo dir: %s", got)
	}
	if got := ReportPath("out", "alice"); got != filepath.Join("out", "alice", "report.json") {
		t.Errorf("Unexpected report path: %s", got)
	}
	if got := ProfilePath("out", "alice"); !strings.HasSuffix(got, "stylometry_profile.json") {
		t.Errorf("Unexpected profile path: %s", got)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := testReport().Write(&buf); err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"login": "alice"`) {
		t.Error("Missing login field")
	}
	if !strings.Contains(out, `"widget"`) {
		t.Error("Missing repository name")
	}
	if !strings.Contains(out, "initial commit") {
		t.Error("Missing commit message")
	}
}

func TestSaveAndLoad(t *testing.T) {
	base := t.TempDir()

	original := testReport()
	if err := original.Save(base); err != nil {
		t.Fatalf("Failed to save report: %v", err)
	}

	loaded, err := Load(base, "alice")
	if err != nil {
		t.Fatalf("Failed to load report: %v", err)
	}

	if loaded.Login != original.Login {
		t.Errorf("Expected login %s, got %s", original.Login, loaded.Login)
	}
	if len(loaded.Repos) != 1 || loaded.Repos[0].Name != "widget" {
		t.Errorf("Unexpected repos: %+v", loaded.Repos)
	}
	if len(loaded.Commits["widget"]) != 1 {
		t.Errorf("Expected 1 commit for widget, got %d", len(loaded.Commits["widget"]))
	}
	if loaded.Commits["widget"][0].Commit.Author.Name != "Alice Doe" {
		t.Errorf("Unexpected commit author: %+v", loaded.Commits["widget"][0].Commit.Author)
	}
}

func TestLoadMissing(t *testing.T) {
	base := t.TempDir()

	_, err := Load(base, "nobody")
	if err == nil {
		t.Fatal("Expected error for missing report")
	}
	if !errors.Is(err, ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}
}

func TestSaveJSON(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "nested", "doc.json")

	doc := map[string]any{"hello": "world"}
	if err := SaveJSON(path, doc); err != nil {
		t.Fatalf("Failed to save JSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved JSON: %v", err)
	}
	if !strings.Contains(string(data), `"hello": "world"`) {
		t.Errorf("Unexpected saved content: %s", data)
	}
}
