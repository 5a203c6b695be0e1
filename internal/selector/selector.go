// Package selector decides which of a user's repositories are worth feeding
// to the stylometric analyses. Repositories are scored on recency, activity,
// and how much of their content the user actually authored; single-contributor
// repositories owned by the user are always included.
package selector

import (
	"sort"
	"time"

	"github.com/stylo-labs/stylo/internal/ingest/git"
	"github.com/stylo-labs/stylo/internal/ingest/github"
	"github.com/stylo-labs/stylo/internal/report"
	"github.com/stylo-labs/stylo/internal/structure"
)

// Config holds scoring parameters for repository selection
type Config struct {
	// MaxRepos limits how many scored repositories are selected
	MaxRepos int

	// MinContributionShare is the minimum authorship percentage for a file
	// to count as a contribution file
	MinContributionShare float64

	// Score caps per component
	RecencyMax      float64
	ActivityMax     float64
	ContributionMax float64
}

// DefaultConfig returns the standard selection parameters
func DefaultConfig() Config {
	return Config{
		MaxRepos:             15,
		MinContributionShare: 20,
		RecencyMax:           35,
		ActivityMax:          35,
		ContributionMax:      30,
	}
}

// RepoStats summarizes a repository's activity over time
type RepoStats struct {
	FirstCommit   time.Time `json:"first_commit"`
	LastCommit    time.Time `json:"last_commit"`
	CommitCount   int       `json:"commit_count"`
	CommitsPerDay float64   `json:"commits_per_day"`
	ActiveDays    int       `json:"active_days"`
}

// ContributionFile records a file where the user holds a meaningful authorship share
type ContributionFile struct {
	Path  string  `json:"path"`
	Share float64 `json:"contribution_percentage"`
}

// Candidate is a repository considered for analysis, with its score breakdown
type Candidate struct {
	Name              string             `json:"name"`
	Stats             RepoStats          `json:"stats"`
	ContributionFiles []ContributionFile `json:"contribution_files"`
	Score             float64            `json:"analysis_score"`
}

// RepoData carries the locally derived inputs for one repository
type RepoData struct {
	// Commits is the parsed clone history; may be empty if the clone failed
	Commits []git.Commit

	// Authorship maps file paths to per-author shares derived from diffs
	Authorship map[string]*git.FileAuthorship
}

// Selection is the final set of repositories to analyze with metadata
type Selection struct {
	Repos    []string             `json:"repos"`
	Metadata map[string]Candidate `json:"metadata"`
}

// OwnerOnly returns repositories where the user is the sole contributor
func OwnerOnly(rep *report.Report, username string) []string {
	var repos []string
	for _, rc := range rep.Contributors {
		if len(rc.Contributors) == 1 && rc.Contributors[0] == username {
			repos = append(repos, rc.Repo)
		}
	}
	return repos
}

// Select scores all candidate repositories and returns the top-scored set
// unioned with the user's single-contributor repositories
func Select(rep *report.Report, repos map[string]RepoData, username string, cfg Config, now time.Time) Selection {
	candidates := buildCandidates(rep, repos, username, cfg)

	for i := range candidates {
		candidates[i].Score = score(candidates[i], cfg, now)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score == candidates[j].Score {
			return candidates[i].Name < candidates[j].Name
		}
		return candidates[i].Score > candidates[j].Score
	})

	top := candidates
	if cfg.MaxRepos > 0 && len(top) > cfg.MaxRepos {
		top = top[:cfg.MaxRepos]
	}

	selection := Selection{
		Metadata: make(map[string]Candidate, len(top)),
	}

	seen := make(map[string]bool)
	for _, c := range top {
		selection.Repos = append(selection.Repos, c.Name)
		selection.Metadata[c.Name] = c
		seen[c.Name] = true
	}

	// Single-contributor repos are always analyzed, scored or not
	for _, name := range OwnerOnly(rep, username) {
		if seen[name] {
			continue
		}
		selection.Repos = append(selection.Repos, name)
		seen[name] = true

		for _, c := range candidates {
			if c.Name == name {
				selection.Metadata[name] = c
				break
			}
		}
	}

	sort.Strings(selection.Repos)
	return selection
}

// buildCandidates assembles the candidate set from contributed repos and
// repos with commit data, computing stats and contribution files for each
func buildCandidates(rep *report.Report, repos map[string]RepoData, username string, cfg Config) []Candidate {
	names := make(map[string]bool)
	for _, rc := range rep.Contributors {
		for _, login := range rc.Contributors {
			if login == username {
				names[rc.Repo] = true
				break
			}
		}
	}
	for name := range rep.Commits {
		names[name] = true
	}

	var candidates []Candidate
	for name := range names {
		data := repos[name]

		stats := computeStats(data.Commits, rep.Commits[name])
		files := contributionFiles(data.Authorship, username, cfg.MinContributionShare)

		// Skip repositories with no observable activity
		if stats.CommitCount == 0 && len(files) == 0 {
			continue
		}

		candidates = append(candidates, Candidate{
			Name:              name,
			Stats:             stats,
			ContributionFiles: files,
		})
	}

	return candidates
}

// computeStats derives activity metrics from the clone history and the
// commits listed in the acquisition report
func computeStats(commits []git.Commit, reported []github.CommitRecord) RepoStats {
	var times []time.Time
	for _, c := range commits {
		times = append(times, c.CommittedAt)
	}
	for _, c := range reported {
		if !c.Commit.Author.Date.IsZero() {
			times = append(times, c.Commit.Author.Date)
		}
	}

	if len(times) == 0 {
		return RepoStats{}
	}

	first, last := times[0], times[0]
	for _, t := range times[1:] {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}

	activeDays := int(last.Sub(first).Hours()/24) + 1
	if activeDays < 1 {
		activeDays = 1
	}

	return RepoStats{
		FirstCommit:   first,
		LastCommit:    last,
		CommitCount:   len(times),
		CommitsPerDay: float64(len(times)) / float64(activeDays),
		ActiveDays:    activeDays,
	}
}

// contributionFiles filters authorship data down to analyzable files where
// the user's share meets the threshold
func contributionFiles(authorship map[string]*git.FileAuthorship, username string, minShare float64) []ContributionFile {
	var files []ContributionFile

	for path, fa := range authorship {
		if !structure.IsAnalyzablePath(path) {
			continue
		}
		if share, ok := fa.Shares[username]; ok && share >= minShare {
			files = append(files, ContributionFile{Path: path, Share: share})
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// score computes the selection score for a candidate:
// recency + activity + contribution, each capped
func score(c Candidate, cfg Config, now time.Time) float64 {
	total := 0.0

	// Recency: full points for fresh repos, decaying ~1 point per month idle
	daysSinceLast := now.Sub(c.Stats.LastCommit).Hours() / 24
	recency := cfg.RecencyMax - daysSinceLast/30
	if recency < 0 {
		recency = 0
	}
	total += recency

	// Activity: commit volume and rate
	activity := float64(c.Stats.CommitCount)*2 + c.Stats.CommitsPerDay*10
	if activity > cfg.ActivityMax {
		activity = cfg.ActivityMax
	}
	total += activity

	// Contribution: number and depth of authored files, or a fallback on
	// commit count when no files cleared the threshold
	if len(c.ContributionFiles) > 0 {
		sum := 0.0
		for _, f := range c.ContributionFiles {
			sum += f.Share
		}
		avg := sum / float64(len(c.ContributionFiles))

		contribution := float64(len(c.ContributionFiles))*2 + avg/5
		if contribution > cfg.ContributionMax {
			contribution = cfg.ContributionMax
		}
		total += contribution
	} else {
		fallback := float64(c.Stats.CommitCount) / 2
		if fallback > cfg.ContributionMax/2 {
			fallback = cfg.ContributionMax / 2
		}
		total += fallback
	}

	return total
}

