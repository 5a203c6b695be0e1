package github

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v77/github"
)

// NewClient creates a GitHub API client with authentication
// token: GitHub personal access token
func NewClient(token string) *github.Client {
	return github.NewClient(nil).WithAuthToken(token)
}

// GetProfile fetches a user's account profile
func GetProfile(ctx context.Context, client *github.Client, username string) (*Profile, error) {
	user, _, err := client.Users.Get(ctx, username)
	if err != nil {
		return nil, handleAPIError(err, fmt.Sprintf("failed to get user %q", username))
	}
	return ParseUser(user), nil
}

// ParseUser converts a go-github User to our Profile struct
func ParseUser(user *github.User) *Profile {
	return &Profile{
		Login:       user.GetLogin(),
		ID:          user.GetID(),
		Name:        user.GetName(),
		Company:     user.GetCompany(),
		Location:    user.GetLocation(),
		Email:       user.GetEmail(),
		Bio:         user.GetBio(),
		Blog:        user.GetBlog(),
		PublicRepos: user.GetPublicRepos(),
		PublicGists: user.GetPublicGists(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		CreatedAt:   user.GetCreatedAt().Time,
		UpdatedAt:   user.GetUpdatedAt().Time,
		HTMLURL:     user.GetHTMLURL(),
	}
}

// ListRepositories fetches all public repositories for a user with pagination
func ListRepositories(ctx context.Context, client *github.Client, username string) ([]Repository, error) {
	var allRepos []Repository

	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "pushed",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		repos, resp, err := client.Repositories.ListByUser(ctx, username, opts)
		if err != nil {
			return nil, handleAPIError(err, "failed to list repositories")
		}

		for _, repo := range repos {
			if repo != nil {
				allRepos = append(allRepos, ParseRepository(repo))
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

// ParseRepository converts a go-github Repository to our Repository struct
func ParseRepository(repo *github.Repository) Repository {
	r := Repository{
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		Language:      repo.GetLanguage(),
		Fork:          repo.GetFork(),
		Archived:      repo.GetArchived(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		Size:          repo.GetSize(),
		DefaultBranch: repo.GetDefaultBranch(),
		CloneURL:      repo.GetCloneURL(),
		CreatedAt:     repo.GetCreatedAt().Time,
		UpdatedAt:     repo.GetUpdatedAt().Time,
	}

	if owner := repo.GetOwner(); owner != nil {
		r.Owner = owner.GetLogin()
	}

	if repo.PushedAt != nil {
		pushedAt := repo.GetPushedAt().Time
		r.PushedAt = &pushedAt
	}

	return r
}

// ListContributors fetches contributor logins for a repository with pagination
// Contributors are returned in API order (descending contribution count)
func ListContributors(ctx context.Context, client *github.Client, owner, repo string) ([]string, error) {
	var logins []string

	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		contributors, resp, err := client.Repositories.ListContributors(ctx, owner, repo, opts)
		if err != nil {
			return nil, handleAPIError(err, "failed to list contributors")
		}

		for _, c := range contributors {
			if c != nil && c.GetLogin() != "" {
				logins = append(logins, c.GetLogin())
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return logins, nil
}

// ListUserCommits fetches commits authored by the user in a repository with pagination
func ListUserCommits(ctx context.Context, client *github.Client, owner, repo, author string) ([]CommitRecord, error) {
	var allCommits []CommitRecord

	opts := &github.CommitsListOptions{
		Author:      author,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		commits, resp, err := client.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, handleAPIError(err, "failed to list commits")
		}

		for _, commit := range commits {
			if commit != nil {
				allCommits = append(allCommits, ParseCommitRecord(commit))
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allCommits, nil
}

// ParseCommitRecord converts a go-github RepositoryCommit to our CommitRecord struct
func ParseCommitRecord(commit *github.RepositoryCommit) CommitRecord {
	record := CommitRecord{
		SHA:     commit.GetSHA(),
		HTMLURL: commit.GetHTMLURL(),
	}

	if c := commit.GetCommit(); c != nil {
		record.Commit.Message = c.GetMessage()
		if author := c.GetAuthor(); author != nil {
			record.Commit.Author = CommitIdentity{
				Name:  author.GetName(),
				Email: author.GetEmail(),
				Date:  author.GetDate().Time,
			}
		}
	}

	return record
}

// handleAPIError wraps API errors with context and detects rate limiting
func handleAPIError(err error, msg string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("%s: hit primary rate limit (used %d of %d, resets at %v): %w",
			msg, rateLimitErr.Rate.Used, rateLimitErr.Rate.Limit, rateLimitErr.Rate.Reset.Time, err)
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		retryAfter := abuseErr.GetRetryAfter()
		return fmt.Errorf("%s: hit secondary rate limit (retry after %v): %w",
			msg, retryAfter, err)
	}

	return fmt.Errorf("%s: %w", msg, err)
}
