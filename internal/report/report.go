// Package report defines the on-disk artifact layout shared by the fetch and
// analyze stages: everything for one account lives under <base>/<username>/,
// with cloned repositories stored as <username>_<repo>.git directories next
// to the JSON outputs.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/stylo-labs/stylo/internal/ingest/github"
)

var (
	ErrReportNotFound = errors.New("report.json not found, run fetch first")
)

// Report is the acquisition output consumed by the analysis pipeline
type Report struct {
	Login        string                           `json:"login"`
	Profile      *github.Profile                  `json:"profile"`
	Repos        []github.Repository              `json:"repos"`
	Contributors []github.RepoContributors        `json:"contributors"`
	Commits      map[string][]github.CommitRecord `json:"commits"`
	FetchedAt    time.Time                        `json:"fetched_at"`
}

// UserDir returns the output directory for a username
func UserDir(basePath, username string) string {
	return filepath.Join(basePath, username)
}

// RepoDir returns the clone directory for a repository
func RepoDir(basePath, username, repo string) string {
	return filepath.Join(UserDir(basePath, username), fmt.Sprintf("%s_%s.git", username, repo))
}

// ReportPath returns the path of the acquisition report
func ReportPath(basePath, username string) string {
	return filepath.Join(UserDir(basePath, username), "report.json")
}

// StructurePath returns the path of the repository structure snapshot
func StructurePath(basePath, username string) string {
	return filepath.Join(UserDir(basePath, username), "stylometry_repo_structure.json")
}

// TemporalPath returns the path of the temporal inspection data
func TemporalPath(basePath, username string) string {
	return filepath.Join(UserDir(basePath, username), "temporal_analysis_contents.json")
}

// ProfilePath returns the path of the final stylometric profile
func ProfilePath(basePath, username string) string {
	return filepath.Join(UserDir(basePath, username), "stylometry_profile.json")
}

// EnsureUserDir creates the output directory for a username if missing
func EnsureUserDir(basePath, username string) (string, error) {
	dir := UserDir(basePath, username)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

// Write serializes the report to a writer as indented JSON
func (r *Report) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Save writes the report to its canonical location under basePath
func (r *Report) Save(basePath string) error {
	if _, err := EnsureUserDir(basePath, r.Login); err != nil {
		return err
	}

	file, err := os.Create(ReportPath(basePath, r.Login))
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	return r.Write(file)
}

// Load reads a previously saved report for a username
func Load(basePath, username string) (*Report, error) {
	path := ReportPath(basePath, username)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrReportNotFound, path)
		}
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer file.Close()

	var report Report
	if err := json.NewDecoder(file).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	return &report, nil
}

// SaveJSON writes an arbitrary document as indented JSON to path,
// creating parent directories as needed
func SaveJSON(path string, doc any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	return nil
}
