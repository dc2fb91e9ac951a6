package autofix

import (
	"context"
	"strings"

	"go.trai.ch/lockmend/internal/core/domain"
	"go.trai.ch/lockmend/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ResolutionStrategy names the refs identifying both sides of an interrupted operation.
type ResolutionStrategy struct {
	// Operation is the interrupted operation, used in logs.
	Operation string
	Refs      []string
}

// DefaultStrategies are tried in order until one resolves.
var DefaultStrategies = []ResolutionStrategy{
	{Operation: "merge", Refs: []string{"MERGE_HEAD", "HEAD"}},
	{Operation: "rebase", Refs: []string{"REBASE_HEAD", "HEAD"}},
	{Operation: "cherry-pick", Refs: []string{"CHERRY_PICK_HEAD", "HEAD"}},
}

// ResolveResult is the outcome of one strategy.
type ResolveResult struct {
	Commits []string
	// Code is the exit code of the query, -1 when it could not run.
	Code   int
	Stderr string
}

// OK reports whether every ref of the strategy resolved to a commit.
func (r ResolveResult) OK() bool {
	return r.Code == 0 && len(r.Commits) > 0
}

type vcsClient struct {
	runner ports.CommandRunner
	logger ports.Logger
	dir    string
	binary string
}

func (c *vcsClient) revParse(ctx context.Context, refs []string) ResolveResult {
	args := append([]string{"rev-parse"}, refs...)
	res, err := c.runner.Run(ctx, c.dir, c.binary, args...)
	if err != nil {
		return ResolveResult{Code: -1, Stderr: err.Error()}
	}
	if !res.Success() {
		return ResolveResult{Code: res.Code, Stderr: res.Stderr}
	}

	commits := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	for i, line := range commits {
		commits[i] = strings.TrimSpace(line)
		if commits[i] == "" {
			return ResolveResult{Code: res.Code, Stderr: "empty revision in output"}
		}
	}
	if len(commits) != len(refs) {
		return ResolveResult{Code: res.Code, Stderr: "unexpected revision count"}
	}
	return ResolveResult{Commits: commits, Code: res.Code}
}

// resolveCommits tries each strategy and returns the commits of the first that succeeds.
func (c *vcsClient) resolveCommits(ctx context.Context, strategies []ResolutionStrategy) ([]string, error) {
	var last ResolveResult
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		last = c.revParse(ctx, s.Refs)
		if last.OK() {
			c.logger.Debug("resolved conflict commits from " + s.Operation + ": " + strings.Join(last.Commits, ", "))
			return last.Commits, nil
		}
		c.logger.Debug("no " + s.Operation + " in progress")
	}

	err := zerr.With(domain.ErrVcsResolution, "code", string(domain.MessageAutomergeGitError))
	if last.Stderr != "" {
		err = zerr.With(err, "stderr", strings.TrimSpace(last.Stderr))
	}
	return nil, err
}

func (c *vcsClient) show(ctx context.Context, commit, filename string) ([]byte, error) {
	res, err := c.runner.Run(ctx, c.dir, c.binary, "show", commit+":./"+filename)
	if err == nil && !res.Success() {
		err = zerr.With(zerr.New(strings.TrimSpace(res.Stderr)), "exit_code", res.Code)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		err = zerr.Wrap(err, domain.ErrVcsBlobFetch.Error()+" in "+commit)
		err = zerr.With(err, "code", string(domain.MessageAutomergeGitError))
		return nil, zerr.With(err, "commit", commit)
	}
	return []byte(res.Stdout), nil
}

// fetchVariants reads and parses the lockfile of every commit concurrently.
// Variants come back in commit order whatever order the fetches finish in.
func (f *Fixer) fetchVariants(
	ctx context.Context,
	vcs *vcsClient,
	commits []string,
	filename string,
) ([]domain.Variant, error) {
	variants := make([]domain.Variant, len(commits))

	g, groupCtx := errgroup.WithContext(ctx)
	for i, commit := range commits {
		g.Go(func() error {
			spanCtx, span := f.tracer.Start(groupCtx, "fetch "+shortCommit(commit),
				ports.WithAttribute("commit", commit))
			defer span.End()

			content, err := vcs.show(spanCtx, commit, filename)
			if err != nil {
				span.RecordError(err)
				return err
			}

			doc, err := f.codec.Parse(content)
			if err != nil {
				err = zerr.Wrap(err, domain.ErrLockfileParse.Error())
				err = zerr.With(err, "code", string(domain.MessageAutomergeFailedToParse))
				err = zerr.With(err, "commit", commit)
				span.RecordError(err)
				return err
			}

			variants[i] = domain.Variant{Commit: commit, Document: doc}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return variants, nil
}

func shortCommit(commit string) string {
	const n = 8
	if len(commit) > n {
		return commit[:n]
	}
	return commit
}
