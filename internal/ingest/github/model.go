package github

import "time"

// Profile represents a GitHub user's account metadata
// Captures the fields relevant for stylometric identity analysis
type Profile struct {
	Login       string    `json:"login"`
	ID          int64     `json:"id"`
	Name        string    `json:"name,omitempty"`
	Company     string    `json:"company,omitempty"`
	Location    string    `json:"location,omitempty"`
	Email       string    `json:"email,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Blog        string    `json:"blog,omitempty"`
	PublicRepos int       `json:"public_repos"`
	PublicGists int       `json:"public_gists"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	HTMLURL     string    `json:"html_url"`
}

// Repository represents a repository owned by or contributed to by the user
type Repository struct {
	Name          string     `json:"name"`
	FullName      string     `json:"full_name"`
	Owner         string     `json:"owner"`
	Description   string     `json:"description,omitempty"`
	Language      string     `json:"language,omitempty"`
	Fork          bool       `json:"fork"`
	Archived      bool       `json:"archived"`
	Stars         int        `json:"stars"`
	Forks         int        `json:"forks"`
	Size          int        `json:"size"`
	DefaultBranch string     `json:"default_branch"`
	CloneURL      string     `json:"clone_url"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	PushedAt      *time.Time `json:"pushed_at,omitempty"`
}

// RepoContributors pairs a repository with its contributor logins,
// ordered by contribution count as returned by the API
type RepoContributors struct {
	Repo         string   `json:"repo"`
	Contributors []string `json:"contributors"`
}

// CommitRecord represents a single commit attributed to the user,
// as listed by the GitHub API (not the cloned history)
type CommitRecord struct {
	SHA     string       `json:"sha"`
	Commit  CommitDetail `json:"commit"`
	HTMLURL string       `json:"html_url,omitempty"`
}

// CommitDetail holds the commit-level metadata nested under a CommitRecord
type CommitDetail struct {
	Author  CommitIdentity `json:"author"`
	Message string         `json:"message"`
}

// CommitIdentity is the name/email/date triple recorded on a commit
type CommitIdentity struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}
