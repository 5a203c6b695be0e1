package git

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
)

// OpenRepository opens a Git repository from a local path
func OpenRepository(path string) (*git.Repository, error) {
	return git.PlainOpen(path)
}

// CloneToDisk clones a repository into a local directory
// depth: 0 for full history, >0 for a shallow clone
func CloneToDisk(ctx context.Context, url, path string, depth int) (*git.Repository, error) {
	return git.PlainCloneContext(ctx, path, &git.CloneOptions{
		URL:   url,
		Depth: depth,
	})
}

// ParseAuthor converts go-git Signature to Author
func ParseAuthor(sig object.Signature) Author {
	return Author{
		Name:  sig.Name,
		Email: sig.Email,
		When:  sig.When,
	}
}

// getFileType extracts file extension for context
func getFileType(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return ""
}

// prefixLines marks each line of a diff chunk with its operation prefix
func prefixLines(content, prefix string) string {
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n") + "\n"
}

// ParseCommitDiffs extracts diffs for a commit with detailed metadata
func ParseCommitDiffs(commit *object.Commit, includePatch bool) ([]Diff, error) {
	var diffs []Diff

	// Get parent commit for diff comparison
	parent, err := commit.Parents().Next()
	if err != nil {
		// First commit has no parent, all files are added
		tree, err := commit.Tree()
		if err != nil {
			return nil, fmt.Errorf("failed to get tree: %w", err)
		}

		err = tree.Files().ForEach(func(file *object.File) error {
			isBinary, _ := file.IsBinary()
			content := ""
			lines := 0
			if !isBinary {
				c, _ := file.Contents()
				lines = strings.Count(c, "\n") + 1
				if includePatch {
					content = prefixLines(c, "+")
				}
			}

			diffs = append(diffs, Diff{
				FilePath:  file.Name,
				Status:    "added",
				Additions: lines,
				Deletions: 0,
				IsBinary:  isBinary,
				FileType:  getFileType(file.Name),
				Patch:     content,
			})
			return nil
		})

		return diffs, err
	}

	patch, err := parent.Patch(commit)
	if err != nil {
		return nil, fmt.Errorf("failed to get patch: %w", err)
	}

	for _, filePatch := range patch.FilePatches() {
		from, to := filePatch.Files()

		diff := Diff{}

		if from == nil && to != nil {
			diff.FilePath = to.Path()
			diff.Status = "added"
			diff.FileType = getFileType(to.Path())
		} else if from != nil && to == nil {
			diff.FilePath = from.Path()
			diff.Status = "deleted"
			diff.FileType = getFileType(from.Path())
		} else if from != nil && to != nil {
			diff.FilePath = to.Path()
			diff.OldPath = from.Path()
			diff.FileType = getFileType(to.Path())
			if from.Path() != to.Path() {
				diff.Status = "renamed"
			} else {
				diff.Status = "modified"
			}
		}

		diff.IsBinary = filePatch.IsBinary()

		additions := 0
		deletions := 0
		var patchText strings.Builder

		for _, chunk := range filePatch.Chunks() {
			content := chunk.Content()

			switch chunk.Type() {
			case 1: // Added
				additions += strings.Count(content, "\n")
				if includePatch {
					patchText.WriteString(prefixLines(content, "+"))
				}
			case 2: // Deleted
				deletions += strings.Count(content, "\n")
				if includePatch {
					patchText.WriteString(prefixLines(content, "-"))
				}
			default: // Context
				if includePatch {
					patchText.WriteString(prefixLines(content, " "))
				}
			}
		}

		diff.Additions = additions
		diff.Deletions = deletions
		if includePatch && !diff.IsBinary {
			diff.Patch = patchText.String()
		}

		diffs = append(diffs, diff)
	}

	return diffs, nil
}

// parseCommitMessage splits commit message into subject and body
func parseCommitMessage(message string) (subject, body string) {
	lines := strings.SplitN(message, "\n", 2)
	subject = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		body = strings.TrimSpace(lines[1])
	}
	return
}

// ParseCommit converts a go-git Commit to our Commit struct with full metadata
func ParseCommit(commit *object.Commit, includePatch bool) (*Commit, error) {
	diffs, err := ParseCommitDiffs(commit, includePatch)
	if err != nil {
		return nil, fmt.Errorf("failed to parse diffs: %w", err)
	}

	stats := CommitStats{
		FilesChanged: len(diffs),
	}
	for _, diff := range diffs {
		stats.Additions += diff.Additions
		stats.Deletions += diff.Deletions
	}

	subject, body := parseCommitMessage(commit.Message)

	return &Commit{
		Hash:           commit.Hash.String(),
		ShortHash:      commit.Hash.String()[:8],
		Author:         ParseAuthor(commit.Author),
		Committer:      ParseAuthor(commit.Committer),
		Message:        commit.Message,
		MessageSubject: subject,
		MessageBody:    body,
		CommittedAt:    commit.Committer.When,
		IsMerge:        commit.NumParents() > 1,
		Diffs:          diffs,
		Stats:          stats,
	}, nil
}

// ParseCommits extracts commits from a repository, newest first
// maxCommits: 0 for unlimited, >0 to limit
// includePatch: whether to include full diff patches (can be large)
func ParseCommits(repo *git.Repository, maxCommits int, includePatch bool) ([]Commit, error) {
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	commitIter, err := repo.Log(&git.LogOptions{
		From: ref.Hash(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}

	commits := make([]Commit, 0)
	count := 0

	err = commitIter.ForEach(func(c *object.Commit) error {
		if maxCommits > 0 && count >= maxCommits {
			return fmt.Errorf("max commits reached")
		}

		commit, err := ParseCommit(c, includePatch)
		if err != nil {
			return fmt.Errorf("failed to parse commit %s: %w", c.Hash, err)
		}

		commits = append(commits, *commit)
		count++
		return nil
	})

	// "max commits reached" is not a real error
	if err != nil && err.Error() != "max commits reached" {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}

	return commits, nil
}

// ComputeAuthorship derives per-file authorship shares from commit diffs.
// Shares are percentages of added lines attributed to each author name,
// which approximates blame-based ownership without walking file contents.
func ComputeAuthorship(commits []Commit) map[string]*FileAuthorship {
	authorship := make(map[string]*FileAuthorship)

	for _, commit := range commits {
		// Merge commits duplicate changes already counted on branches
		if commit.IsMerge {
			continue
		}

		for _, diff := range commit.Diffs {
			if diff.IsBinary || diff.Status == "deleted" || diff.Additions == 0 {
				continue
			}

			fa, ok := authorship[diff.FilePath]
			if !ok {
				fa = &FileAuthorship{
					Path:   diff.FilePath,
					Shares: make(map[string]float64),
				}
				authorship[diff.FilePath] = fa
			}

			fa.TotalAdded += diff.Additions
			fa.Shares[commit.Author.Name] += float64(diff.Additions)
		}
	}

	// Normalize raw line counts into percentages
	for _, fa := range authorship {
		if fa.TotalAdded == 0 {
			continue
		}
		for name, added := range fa.Shares {
			fa.Shares[name] = added / float64(fa.TotalAdded) * 100
		}
	}

	return authorship
}

// FileHistory extracts the revision history for a single file from parsed commits.
// Returns revisions oldest first, sampling first, middle, and last when the
// history is long enough, mirroring how evolution analysis samples key commits.
func FileHistory(repo *git.Repository, commits []Commit, path string, maxDiffLines int) ([]FileRevision, error) {
	// Collect commits touching the file, oldest first
	var touching []Commit
	for i := len(commits) - 1; i >= 0; i-- {
		for _, diff := range commits[i].Diffs {
			if diff.FilePath == path {
				touching = append(touching, commits[i])
				break
			}
		}
	}

	if len(touching) == 0 {
		return nil, nil
	}

	// Sample key revisions: first, middle (when history is long), last
	sampled := []Commit{touching[0]}
	if len(touching) > 4 {
		sampled = append(sampled, touching[len(touching)/2])
	}
	if len(touching) > 1 {
		sampled = append(sampled, touching[len(touching)-1])
	}

	var revisions []FileRevision
	for i, commit := range sampled {
		var patch string
		for _, diff := range commit.Diffs {
			if diff.FilePath == path {
				patch = diff.Patch
				break
			}
		}

		// Skip oversized diffs, they drown the signal
		if maxDiffLines > 0 && strings.Count(patch, "\n") > maxDiffLines {
			continue
		}
		if strings.TrimSpace(patch) == "" {
			continue
		}

		rev := FileRevision{
			SHA:     commit.Hash,
			Date:    commit.CommittedAt,
			File:    path,
			Changes: patch,
		}

		// Include full content only for the first and last sampled revisions
		if repo != nil && (i == 0 || i == len(sampled)-1) {
			content, err := fileContentAt(repo, commit.Hash, path)
			if err == nil {
				rev.Content = content
			}
		}

		revisions = append(revisions, rev)
	}

	sort.Slice(revisions, func(i, j int) bool {
		return revisions[i].Date.Before(revisions[j].Date)
	})

	return revisions, nil
}

// fileContentAt reads a file's content at a specific commit
func fileContentAt(repo *git.Repository, sha, path string) (string, error) {
	commit, err := repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return "", fmt.Errorf("failed to resolve commit %s: %w", sha, err)
	}

	file, err := commit.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to find file %s at %s: %w", path, sha, err)
	}

	return file.Contents()
}
