package publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/oshokin/central-publisher/internal/api/central"
	"github.com/oshokin/central-publisher/internal/archive"
	"github.com/oshokin/central-publisher/internal/checksum"
	"github.com/oshokin/central-publisher/internal/config"
	"github.com/oshokin/central-publisher/internal/domain/artifact"
	domain "github.com/oshokin/central-publisher/internal/domain/deployment"
	"github.com/oshokin/central-publisher/internal/logger"
	"github.com/oshokin/central-publisher/internal/pom"
	"github.com/oshokin/central-publisher/internal/repository/bundle"
	"github.com/oshokin/central-publisher/internal/signing"
)

// StagingDir is the directory of the build filesystem the bundle tree is staged in.
const StagingDir = "upload"

// Uploader sends an archive to the publisher.
type Uploader interface {
	Upload(
		ctx context.Context,
		archive io.Reader,
		fileName, name string,
		publishingType domain.PublishingType,
	) (domain.ID, error)
}

// StatusQuerier performs one deployment status query.
type StatusQuerier interface {
	Status(ctx context.Context, id domain.ID) (*central.Report, error)
}

// Pipeline holds the validated settings and filesystems of one publication.
type Pipeline struct {
	// cfg is the validated configuration.
	cfg *config.Config
	// source resolves artifact paths.
	source billy.Filesystem
	// build holds the staged bundle and the archive.
	build billy.Filesystem
	// signer produces detached signatures.
	signer signing.Signer
	// engine writes checksum siblings.
	engine *checksum.Engine
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithFilesystems replaces the source and build filesystems, e.g. with in-memory ones.
func WithFilesystems(source, build billy.Filesystem) PipelineOption {
	return func(p *Pipeline) {
		p.source = source
		p.build = build
	}
}

// NewPipeline validates the bundle settings eagerly and prepares the filesystems.
func NewPipeline(cfg *config.Config, signer signing.Signer, opts ...PipelineOption) (*Pipeline, error) {
	if err := config.ValidateBundle(cfg); err != nil {
		return nil, err
	}

	if signer == nil {
		return nil, errSignerRequired
	}

	p := &Pipeline{
		cfg:    cfg,
		signer: signer,
		engine: checksum.NewEngine(cfg.Checksums...),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.source == nil {
		p.source = osfs.New(cfg.SourceDir)
	}

	if p.build == nil {
		if err := os.MkdirAll(cfg.BuildDir, bundle.DirMode); err != nil {
			return nil, &bundle.FilesystemError{Op: "mkdir", Path: cfg.BuildDir, Err: err}
		}

		p.build = osfs.New(cfg.BuildDir)
	}

	return p, nil
}

// ArchiveName returns the archive file name on the build filesystem.
func (p *Pipeline) ArchiveName() string {
	return archive.FileName(p.cfg.Coordinate)
}

// Reset removes the staged tree of a previous run so the bundle is built fresh.
// The previous archive is only removed when removeArchive is set.
func (p *Pipeline) Reset(ctx context.Context, removeArchive bool) error {
	if err := util.RemoveAll(p.build, StagingDir); err != nil {
		return stageError(StageAggregate, &bundle.FilesystemError{Op: "remove", Path: StagingDir, Err: err})
	}

	if removeArchive {
		err := p.build.Remove(p.ArchiveName())
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return stageError(StageArchive, &archive.ArchiveError{Path: p.ArchiveName(), Err: err})
		}

		logger.DebugKV(ctx, "Removed previous archive", "path", p.ArchiveName())
	}

	return nil
}

// Artifacts returns the configured artifacts plus a generated POM when none is listed.
func (p *Pipeline) Artifacts() ([]artifact.File, error) {
	files := append([]artifact.File(nil), p.cfg.Artifacts...)

	for _, file := range files {
		if file.Kind == artifact.KindPOM {
			return files, nil
		}
	}

	content, err := pom.Generate(p.cfg.Coordinate, p.cfg.ComponentType, p.cfg.POM)
	if err != nil {
		return nil, fmt.Errorf("generate POM: %w", err)
	}

	return append(files, artifact.File{Kind: artifact.KindPOM, Content: content}), nil
}

// Aggregate places every artifact into the repository layout below StagingDir.
func (p *Pipeline) Aggregate(ctx context.Context) (*bundle.Bundle, error) {
	files, err := p.Artifacts()
	if err != nil {
		return nil, stageError(StageAggregate, err)
	}

	b, err := bundle.NewAggregator(p.source, p.build, StagingDir).Aggregate(ctx, p.cfg.Coordinate, files)
	if err != nil {
		return nil, stageError(StageAggregate, err)
	}

	return b, nil
}

// Sign attaches a detached signature to every artifact of the bundle.
func (p *Pipeline) Sign(ctx context.Context, b *bundle.Bundle) error {
	_, err := signing.SignBundle(ctx, b, p.signer)

	return stageError(StageSign, err)
}

// Hash writes the checksum siblings of every artifact of the bundle.
func (p *Pipeline) Hash(ctx context.Context, b *bundle.Bundle) error {
	_, err := p.engine.HashBundle(ctx, b)

	return stageError(StageHash, err)
}

// Archive packages the staged tree into the bundle archive.
func (p *Pipeline) Archive(ctx context.Context, b *bundle.Bundle) (*archive.Result, error) {
	result, err := archive.Build(ctx, b.FS, b.Root, p.build, p.ArchiveName())
	if err != nil {
		return nil, stageError(StageArchive, err)
	}

	return result, nil
}

// Prepare runs every local stage: aggregate, sign, hash and archive.
func (p *Pipeline) Prepare(ctx context.Context) (*archive.Result, error) {
	b, err := p.Aggregate(ctx)
	if err != nil {
		return nil, err
	}

	if err = p.Sign(ctx, b); err != nil {
		return nil, err
	}

	if err = p.Hash(ctx, b); err != nil {
		return nil, err
	}

	return p.Archive(ctx, b)
}

// Upload sends the archive and returns the deployment identifier.
func (p *Pipeline) Upload(ctx context.Context, uploader Uploader, result *archive.Result) (domain.ID, error) {
	f, err := p.build.Open(result.Path)
	if err != nil {
		return "", stageError(StageUpload, &archive.ArchiveError{Path: result.Path, Err: err})
	}

	defer func() {
		_ = f.Close()
	}()

	id, err := uploader.Upload(ctx, f, p.ArchiveName(), p.cfg.DeploymentName, p.cfg.PublishingType)
	if err != nil {
		return "", stageError(StageUpload, err)
	}

	return id, nil
}

// Poll performs one status query for the deployment.
func (p *Pipeline) Poll(ctx context.Context, querier StatusQuerier, id domain.ID) (*central.Report, error) {
	report, err := querier.Status(ctx, id)
	if err != nil {
		return nil, stageError(StagePoll, err)
	}

	return report, nil
}

// Wait polls until the deployment settles, see Wait.
func (p *Pipeline) Wait(ctx context.Context, querier StatusQuerier, id domain.ID) (*central.Report, error) {
	report, err := Wait(ctx, querier, id, TargetStatus(p.cfg.PublishingType), p.cfg.Poll)

	return report, stageError(StagePoll, err)
}
