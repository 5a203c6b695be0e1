package git

import "time"

// Author represents a commit author or committer identity
type Author struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	When  time.Time `json:"when"`
}

// Diff represents changes to a single file within a commit
type Diff struct {
	FilePath  string `json:"file_path"`
	OldPath   string `json:"old_path,omitempty"`
	Status    string `json:"status"` // "added", "modified", "deleted", "renamed"
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	IsBinary  bool   `json:"is_binary"`
	FileType  string `json:"file_type,omitempty"`
	Patch     string `json:"patch,omitempty"`
}

// CommitStats aggregates change statistics for a commit
type CommitStats struct {
	FilesChanged int `json:"files_changed"`
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
}

// Commit represents a parsed commit with metadata and file changes
type Commit struct {
	Hash           string      `json:"hash"`
	ShortHash      string      `json:"short_hash"`
	Author         Author      `json:"author"`
	Committer      Author      `json:"committer"`
	Message        string      `json:"message"`
	MessageSubject string      `json:"message_subject"`
	MessageBody    string      `json:"message_body,omitempty"`
	CommittedAt    time.Time   `json:"committed_at"`
	IsMerge        bool        `json:"is_merge"`
	Diffs          []Diff      `json:"diffs,omitempty"`
	Stats          CommitStats `json:"stats"`
}

// FileAuthorship records one author's share of changes to a file,
// derived from added-line counts across the commit history
type FileAuthorship struct {
	Path       string             `json:"path"`
	TotalAdded int                `json:"total_added"`
	Shares     map[string]float64 `json:"shares"` // author name -> percentage 0-100
}

// FileRevision is a single commit's change to a specific file,
// used to trace how a file evolved over time
type FileRevision struct {
	SHA     string    `json:"sha"`
	Date    time.Time `json:"date"`
	File    string    `json:"file"`
	Changes string    `json:"changes"`
	Content string    `json:"content,omitempty"`
}
