package deployment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/central-publisher/internal/api/central"
	"github.com/oshokin/central-publisher/internal/config"
	domain "github.com/oshokin/central-publisher/internal/domain/deployment"
	"github.com/oshokin/central-publisher/internal/logger"
	"github.com/oshokin/central-publisher/internal/repository/record"
	"github.com/oshokin/central-publisher/internal/service/common"
	"github.com/oshokin/central-publisher/internal/service/publisher"
)

// ErrNoDeployment is returned when no identifier is given and nothing was recorded.
var ErrNoDeployment = errors.New("no deployment id given and no deployment recorded")

// Options configures the deployment commands.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// Config is used instead of loading ConfigPath when set.
	Config *config.Config
	// DeploymentID overrides the recorded deployment.
	DeploymentID string
	// Wait keeps polling until the deployment settles, only used by Status.
	Wait bool
	// ClientOptions are passed to the publisher API client.
	ClientOptions []common.Option
	// Records replaces the record file in the build directory when set.
	Records record.Repository
}

// session is the state shared by one command run.
type session struct {
	cfg    *config.Config
	client *common.Client
	repo   record.Repository
	id     domain.ID
	// recorded is the stored record when it describes id.
	recorded *domain.Record
}

// Status queries the deployment once, or until it settles when Wait is set,
// and stores the observed state in the deployment record.
func Status(ctx context.Context, opts *Options) (*central.Report, error) {
	ctx = logger.WithName(ctx, "status")

	s, err := open(ctx, opts)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithKV(ctx, "deployment_id", s.id.String())

	var report *central.Report

	if opts.Wait {
		target := publisher.TargetStatus(s.cfg.PublishingType)
		if s.recorded != nil {
			target = publisher.TargetStatus(s.recorded.PublishingType)
		}

		report, err = publisher.Wait(ctx, s.client, s.id, target, s.cfg.Poll)
	} else {
		report, err = s.client.Status(ctx, s.id)
	}

	if report != nil {
		s.observe(ctx, report.State)
	}

	if err != nil {
		return report, err
	}

	logger.InfoKV(ctx, "Deployment state", "state", string(report.State), "errors", len(report.Errors))

	return report, nil
}

// Drop asks the publisher to delete the deployment. The local record is only removed
// once the publisher accepted the drop, a rejected drop can be retried.
func Drop(ctx context.Context, opts *Options) (domain.ID, error) {
	ctx = logger.WithName(ctx, "drop")

	s, err := open(ctx, opts)
	if err != nil {
		return "", err
	}

	if err = s.client.Drop(ctx, s.id); err != nil {
		return s.id, err
	}

	logger.InfoKV(ctx, "Deployment dropped", "deployment_id", s.id.String())

	if s.recorded != nil {
		if err = s.repo.Delete(ctx); err != nil {
			logger.WarnKV(ctx, "Failed to remove deployment record", "error", err)
		}
	}

	return s.id, nil
}

// Promote publishes a validated USER_MANAGED deployment.
func Promote(ctx context.Context, opts *Options) (domain.ID, error) {
	ctx = logger.WithName(ctx, "promote")

	s, err := open(ctx, opts)
	if err != nil {
		return "", err
	}

	if err = s.client.Promote(ctx, s.id); err != nil {
		return s.id, err
	}

	logger.InfoKV(ctx, "Deployment promoted", "deployment_id", s.id.String())

	return s.id, nil
}

func open(ctx context.Context, opts *Options) (*session, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}

		cfg = loaded
	}

	client, err := common.Dial(ctx, cfg, opts.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial publisher: %w", err)
	}

	repo := opts.Records
	if repo == nil {
		repo = record.ForBuildDir(cfg.BuildDir)
	}

	s := &session{
		cfg:    cfg,
		client: client,
		repo:   repo,
	}

	stored, err := s.repo.Load(ctx)

	switch {
	case err == nil:
	case errors.Is(err, record.ErrNotFound):
		stored = nil
	default:
		return nil, fmt.Errorf("load deployment record: %w", err)
	}

	if opts.DeploymentID != "" {
		s.id = domain.ID(opts.DeploymentID)
	} else if stored != nil {
		s.id = stored.ID
	}

	if err = s.id.Validate(); err != nil {
		return nil, ErrNoDeployment
	}

	if stored != nil && stored.ID == s.id {
		s.recorded = stored
	}

	return s, nil
}

// observe stores state in the record when it describes the current deployment.
func (s *session) observe(ctx context.Context, state domain.Status) {
	if s.recorded == nil {
		return
	}

	s.recorded.Observe(state, time.Now().UTC())

	if err := s.repo.Save(ctx, s.recorded); err != nil {
		logger.WarnKV(ctx, "Failed to update deployment record", "error", err)
	}
}
