// Package git provides an interface-based wrapper for the Git operations
// the release tooling performs, with context support and proper error
// handling.
package git

import (
	"context"
	"errors"
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Common Git errors
var (
	ErrNotAGitRepo     = errors.New("not a git repository")
	ErrNothingToCommit = errors.New("nothing to commit")
	ErrEmptyMessage    = errors.New("commit message cannot be empty")
	ErrEmptyTag        = errors.New("tag name cannot be empty")
	ErrTagExists       = errors.New("tag already exists")
)

// Git is the interface for Git operations.
type Git interface {
	Status(ctx context.Context) (string, bool, error)
	StageAll(ctx context.Context) error
	Commit(ctx context.Context, msg string) (string, error)
	Tag(ctx context.Context, name string) error
}

// Client implements the Git interface.
type Client struct {
	repoPath string // Path inside the repository
}

// NewClient creates a new Git client. repoPath may be any directory inside
// the working tree.
func NewClient(repoPath string) *Client {
	return &Client{
		repoPath: repoPath,
	}
}

func (c *Client) open(ctx context.Context) (*gogit.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(c.repoPath, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotAGitRepo, c.repoPath)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return repo, nil
}

// Status returns the short status of the working tree and whether it is
// clean.
func (c *Client) Status(ctx context.Context) (string, bool, error) {
	repo, err := c.open(ctx)
	if err != nil {
		return "", false, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", false, fmt.Errorf("get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return "", false, fmt.Errorf("read status: %w", err)
	}

	return status.String(), status.IsClean(), nil
}

// StageAll stages every change in the working tree, deletions included.
func (c *Client) StageAll(ctx context.Context) error {
	repo, err := c.open(ctx)
	if err != nil {
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	if err := worktree.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}
	return nil
}

// Commit records the staged changes and returns the new commit hash. The
// author comes from DetectUser.
func (c *Client) Commit(ctx context.Context, msg string) (string, error) {
	if msg == "" {
		return "", ErrEmptyMessage
	}

	repo, err := c.open(ctx)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return "", fmt.Errorf("read status: %w", err)
	}
	if !hasStaged(status) {
		return "", ErrNothingToCommit
	}

	user := DetectUser(repo)
	hash, err := worktree.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  user.Name,
			Email: user.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("create commit: %w", err)
	}

	return hash.String(), nil
}

func hasStaged(status gogit.Status) bool {
	for _, s := range status {
		if s.Staging != gogit.Unmodified && s.Staging != gogit.Untracked {
			return true
		}
	}
	return false
}

// Tag creates a lightweight tag at HEAD.
func (c *Client) Tag(ctx context.Context, name string) error {
	if name == "" {
		return ErrEmptyTag
	}

	repo, err := c.open(ctx)
	if err != nil {
		return err
	}

	if _, err := repo.Tag(name); err == nil {
		return fmt.Errorf("%w: %s", ErrTagExists, name)
	} else if !errors.Is(err, gogit.ErrTagNotFound) {
		return fmt.Errorf("look up tag %s: %w", name, err)
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("get HEAD: %w", err)
	}

	if _, err := repo.CreateTag(name, head.Hash(), nil); err != nil {
		return fmt.Errorf("create tag %s: %w", name, err)
	}
	return nil
}
