// Package autofix repairs lockfiles left with merge conflict markers by
// rebuilding them from the versions recorded on each side of the conflict.
package autofix

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/lockmend/internal/core/domain"
	"go.trai.ch/lockmend/internal/core/ports"
	"go.trai.ch/zerr"
)

// Request describes the project whose lockfile should be fixed.
type Request struct {
	// ProjectRoot is empty when no project was found.
	ProjectRoot      string
	LockfileFilename string
	// Immutable forbids modifying the lockfile.
	Immutable bool
	// GitBinary defaults to domain.DefaultGitBinary.
	GitBinary string
	// Normalize maps legacy keys to their canonical form. Nil leaves them as is.
	Normalize domain.DescriptorNormalizer
}

// RequestFromConfig builds a request for the project described by cfg.
func RequestFromConfig(cfg domain.Config) Request {
	return Request{
		ProjectRoot:      cfg.ProjectRoot,
		LockfileFilename: cfg.LockfileFilename,
		Immutable:        cfg.EnableImmutableInstalls,
		GitBinary:        cfg.GitBinary,
		Normalize:        cfg.NormalizeDependency,
	}
}

func (r Request) lockfileName() string {
	if r.LockfileFilename == "" {
		return domain.DefaultLockfileName
	}
	return r.LockfileFilename
}

func (r Request) lockfilePath() string {
	return filepath.Join(r.ProjectRoot, r.lockfileName())
}

func (r Request) gitBinary() string {
	if r.GitBinary == "" {
		return domain.DefaultGitBinary
	}
	return r.GitBinary
}

// result is the outcome of the pipeline up to serialization.
type result struct {
	status  Status
	content []byte
	report  MergeReport
}

// Fixer detects and repairs conflicted lockfiles.
type Fixer struct {
	runner     ports.CommandRunner
	codec      ports.LockfileCodec
	fs         ports.FileSystem
	logger     ports.Logger
	tracer     ports.Tracer
	strategies []ResolutionStrategy
}

// NewFixer creates a new Fixer.
func NewFixer(
	runner ports.CommandRunner,
	codec ports.LockfileCodec,
	fs ports.FileSystem,
	logger ports.Logger,
	tracer ports.Tracer,
) *Fixer {
	return &Fixer{
		runner:     runner,
		codec:      codec,
		fs:         fs,
		logger:     logger,
		tracer:     tracer,
		strategies: DefaultStrategies,
	}
}

// WithTracer returns a copy of the fixer reporting its stages to tracer.
func (f *Fixer) WithTracer(tracer ports.Tracer) *Fixer {
	c := *f
	c.tracer = tracer
	return &c
}

// WithStrategies returns a copy of the fixer trying strategies in order.
func (f *Fixer) WithStrategies(strategies []ResolutionStrategy) *Fixer {
	c := *f
	c.strategies = strategies
	return &c
}

// Check classifies the lockfile without querying version control.
func (f *Fixer) Check(_ context.Context, req Request) (Status, error) {
	status, _, err := detect(f.fs, req)
	return status, err
}

// Fix repairs the lockfile if it carries conflict markers.
// It reports false when there was nothing to fix. On error the lockfile is left untouched.
func (f *Fixer) Fix(ctx context.Context, req Request) (bool, error) {
	ctx, span := f.tracer.Start(ctx, "autofix", ports.WithAttribute("lockfile", req.lockfilePath()))
	defer span.End()

	res, err := f.run(ctx, req)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if res.status != StatusConflicted {
		return false, nil
	}

	_, writeSpan := f.tracer.Start(ctx, "write")
	defer writeSpan.End()

	changed, err := f.fs.ChangeFile(req.lockfilePath(), res.content, ports.ChangeOptions{AutomaticNewlines: true})
	if err != nil {
		writeSpan.RecordError(err)
		span.RecordError(err)
		return false, err
	}
	writeSpan.SetAttribute("changed", changed)

	return true, nil
}

// Preview runs the whole repair and returns the merged lockfile without writing it.
// It returns nil when there is nothing to fix.
func (f *Fixer) Preview(ctx context.Context, req Request) ([]byte, error) {
	ctx, span := f.tracer.Start(ctx, "autofix", ports.WithAttribute("lockfile", req.lockfilePath()))
	defer span.End()

	res, err := f.run(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return res.content, nil
}

func (f *Fixer) run(ctx context.Context, req Request) (result, error) {
	_, detectSpan := f.tracer.Start(ctx, "detect")
	status, _, err := detect(f.fs, req)
	if err != nil {
		detectSpan.RecordError(err)
		detectSpan.End()
		return result{}, err
	}
	detectSpan.SetAttribute("status", status.String())
	detectSpan.End()

	if status != StatusConflicted {
		f.logger.Debug("lockfile needs no fix: " + status.String())
		return result{status: status}, nil
	}

	if req.Immutable {
		return result{}, zerr.With(domain.ErrImmutableConflict, "code", string(domain.MessageAutomergeImmutable))
	}

	vcs := &vcsClient{runner: f.runner, logger: f.logger, dir: req.ProjectRoot, binary: req.gitBinary()}

	retrieveCtx, retrieveSpan := f.tracer.Start(ctx, "retrieve")
	variants, err := f.retrieve(retrieveCtx, vcs, req.lockfileName())
	if err != nil {
		retrieveSpan.RecordError(err)
		retrieveSpan.End()
		return result{}, err
	}
	retrieveSpan.SetAttribute("variants", len(variants))
	retrieveSpan.End()

	_, mergeSpan := f.tracer.Start(ctx, "merge")
	defer mergeSpan.End()

	merged, report, err := f.merge(variants, req.Normalize)
	if err != nil {
		mergeSpan.RecordError(err)
		return result{}, err
	}
	f.logger.Debug(fmt.Sprintf("merged %d variants: %d keys renamed, %d malformed values removed",
		len(report.Commits)-len(report.Dropped), report.Renamed, len(report.Removed)))
	for _, c := range report.Collisions {
		f.logger.Warn(c.Key + " differs between " + strings.Join(c.Commits, " and ") + ", keeping the last")
	}

	content, err := f.codec.Serialize(merged)
	if err != nil {
		err = zerr.Wrap(err, domain.ErrLockfileSerializeFailed.Error())
		mergeSpan.RecordError(err)
		return result{}, err
	}

	return result{status: status, content: content, report: report}, nil
}

func (f *Fixer) retrieve(ctx context.Context, vcs *vcsClient, filename string) ([]domain.Variant, error) {
	commits, err := vcs.resolveCommits(ctx, f.strategies)
	if err != nil {
		return nil, err
	}
	return f.fetchVariants(ctx, vcs, commits, filename)
}

// merge normalizes the variants and folds them into one document.
// It mutates the variant documents.
func (f *Fixer) merge(
	variants []domain.Variant,
	normalize domain.DescriptorNormalizer,
) (*domain.Document, MergeReport, error) {
	report := MergeReport{}
	for _, v := range variants {
		report.Commits = append(report.Commits, v.Commit)
	}

	kept, dropped := selectVariants(variants)
	report.Dropped = dropped
	for _, commit := range dropped {
		f.logger.Debug("ignoring variant without metadata from " + commit)
	}
	if len(kept) == 0 {
		err := zerr.With(domain.ErrNoMergeableVariants, "code", string(domain.MessageAutomergeNoVariants))
		return nil, report, zerr.With(err, "variants", len(variants))
	}

	for _, v := range kept {
		md, _ := v.Document.Metadata()
		if normalize != nil && needsKeyNormalization(md) {
			report.Renamed += normalizeKeys(v.Document, normalize)
		}
		namespaceChecksums(v.Document, md.CacheKey)
	}

	merged, collisions := mergeVariants(kept)
	report.Collisions = collisions
	reconcileMetadata(merged, kept)
	report.Removed = removeMalformed(merged)

	return merged, report, nil
}
