package publisher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oshokin/central-publisher/internal/api/central"
	"github.com/oshokin/central-publisher/internal/archive"
	"github.com/oshokin/central-publisher/internal/config"
	domain "github.com/oshokin/central-publisher/internal/domain/deployment"
	"github.com/oshokin/central-publisher/internal/logger"
	"github.com/oshokin/central-publisher/internal/repository/record"
	"github.com/oshokin/central-publisher/internal/service/common"
	"github.com/oshokin/central-publisher/internal/signing"
)

// Options contains inputs for the bundle and publish entry points.
type Options struct {
	// ConfigPath is the path to the settings YAML file.
	ConfigPath string
	// Config is used instead of loading ConfigPath when set.
	Config *config.Config
	// PublishingType overrides the configured publishing type when set.
	PublishingType string
	// Clean removes an archive left by a previous run instead of refusing to overwrite it.
	Clean bool
	// Wait keeps polling until the deployment settles.
	Wait bool
	// Signer replaces the OpenPGP signer built from the configured key.
	Signer signing.Signer
	// ClientOptions are passed to the publisher API client.
	ClientOptions []common.Option
}

// Result describes a finished run.
type Result struct {
	// Archive is the built archive.
	Archive *archive.Result
	// Record is the stored deployment record, nil when nothing was uploaded.
	Record *domain.Record
	// Report is the last observed deployment state, nil when nothing was uploaded.
	Report *central.Report
}

// RunBundle builds the signed, checksummed archive without contacting the publisher.
func RunBundle(ctx context.Context, opts *Options) (*Result, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "bundle")

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	pipeline, unlock, err := preparePipeline(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	defer unlock()

	result, err := pipeline.Prepare(ctx)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Bundle ready", "archive", filepath.Join(cfg.BuildDir, result.Path), "digest", result.Digest.String())

	return &Result{Archive: result}, nil
}

// Run builds the archive, uploads it and records the deployment.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "publish")

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	if err = config.ValidateRemote(cfg); err != nil {
		return nil, err
	}

	actor, err := common.DetectActor()
	if err != nil {
		return nil, fmt.Errorf("detect actor: %w", err)
	}

	client, err := common.Dial(ctx, cfg, opts.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial publisher: %w", err)
	}

	pipeline, unlock, err := preparePipeline(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	defer unlock()

	ctx = logger.WithKV(ctx, "coordinate", cfg.Coordinate.String())

	archiveResult, err := pipeline.Prepare(ctx)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Uploading bundle",
		"publisher", client.BaseURL(),
		"publishing_type", string(cfg.PublishingType),
		"size", archiveResult.Size)

	id, err := pipeline.Upload(ctx, client, archiveResult)
	if err != nil {
		return nil, err
	}

	rec := &domain.Record{
		ID:             id,
		Name:           cfg.DeploymentName,
		Coordinate:     cfg.Coordinate,
		PURL:           cfg.Coordinate.PURL(),
		PublishingType: cfg.PublishingType,
		ArchivePath:    filepath.Join(cfg.BuildDir, archiveResult.Path),
		ArchiveDigest:  archiveResult.Digest.String(),
		ArchiveSize:    archiveResult.Size,
		UploadedBy:     actor,
		UploadedAt:     time.Now().UTC(),
	}

	repo := record.ForBuildDir(cfg.BuildDir)
	if err = repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save deployment record: %w", err)
	}

	logger.InfoKV(ctx, "Deployment recorded", "deployment_id", id.String(), "record", repo.Path())

	var report *central.Report
	if opts.Wait {
		report, err = pipeline.Wait(ctx, client, id)
	} else {
		report, err = pipeline.Poll(ctx, client, id)
	}

	if report != nil {
		rec.Observe(report.State, time.Now().UTC())

		if saveErr := repo.Save(ctx, rec); saveErr != nil {
			logger.WarnKV(ctx, "Failed to update deployment record", "error", saveErr)
		}
	}

	return &Result{Archive: archiveResult, Record: rec, Report: report}, err
}

func loadConfig(opts *Options) (*config.Config, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}

		cfg = loaded
	}

	if opts.PublishingType != "" {
		cfg.PublishingType = domain.PublishingType(opts.PublishingType)
	}

	if err := config.ValidateBundle(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// preparePipeline locks the build directory and starts from a fresh staging tree.
func preparePipeline(ctx context.Context, cfg *config.Config, opts *Options) (*Pipeline, func(), error) {
	signer := opts.Signer
	if signer == nil {
		loaded, err := loadSigner(cfg.Signing)
		if err != nil {
			return nil, nil, stageError(StageSign, err)
		}

		signer = loaded
	}

	pipeline, err := NewPipeline(cfg, signer)
	if err != nil {
		return nil, nil, err
	}

	unlock, err := LockBuildDir(cfg.BuildDir)
	if err != nil {
		return nil, nil, err
	}

	if err = pipeline.Reset(ctx, opts.Clean); err != nil {
		unlock()

		return nil, nil, err
	}

	return pipeline, unlock, nil
}

func loadSigner(settings config.Signing) (*signing.PGPSigner, error) {
	f, err := os.Open(filepath.Clean(settings.KeyFile))
	if err != nil {
		return nil, fmt.Errorf("open signing key: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	return signing.LoadPGPSigner(f, settings.KeyID, settings.Passphrase)
}
