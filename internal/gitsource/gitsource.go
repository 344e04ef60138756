// Package gitsource fetches the content tree from a git repository into a
// local checkout before discovery runs, for sites whose content lives in a
// separate repository.
package gitsource

import (
	"context"
	"errors"
	"log/slog"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/sitegen/internal/config"
	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Sync clones the configured repository into its checkout directory, or pulls
// when a checkout already exists. Returns the local content directory.
func Sync(ctx context.Context, cfg *config.GitSource) (string, error) {
	if _, err := os.Stat(cfg.Dir); os.IsNotExist(err) {
		return clone(ctx, cfg)
	}
	return pull(ctx, cfg)
}

func clone(ctx context.Context, cfg *config.GitSource) (string, error) {
	slog.Info("Cloning content repository", slog.String("url", cfg.URL), logfields.Path(cfg.Dir))

	opts := &git.CloneOptions{URL: cfg.URL, Depth: 1}
	if cfg.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(cfg.Branch)
		opts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, cfg.Dir, false, opts); err != nil {
		return "", sgerrors.SourceCloneFailed(cfg.URL, err)
	}
	return cfg.Dir, nil
}

func pull(ctx context.Context, cfg *config.GitSource) (string, error) {
	repo, err := git.PlainOpen(cfg.Dir)
	if err != nil {
		return "", sgerrors.SourceCloneFailed(cfg.URL, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", sgerrors.SourceCloneFailed(cfg.URL, err)
	}

	opts := &git.PullOptions{RemoteName: "origin"}
	if cfg.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(cfg.Branch)
	}

	err = worktree.PullContext(ctx, opts)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", sgerrors.SourceCloneFailed(cfg.URL, err)
	}

	slog.Info("Content repository up to date", logfields.Path(cfg.Dir))
	return cfg.Dir, nil
}
