package publisher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenk/backoff"

	"github.com/oshokin/central-publisher/internal/api/central"
	"github.com/oshokin/central-publisher/internal/config"
	domain "github.com/oshokin/central-publisher/internal/domain/deployment"
	"github.com/oshokin/central-publisher/internal/logger"
)

// TargetStatus is the state a publication settles in: PUBLISHED for AUTOMATIC,
// VALIDATED for USER_MANAGED deployments that wait for promotion.
func TargetStatus(publishingType domain.PublishingType) domain.Status {
	if publishingType == domain.UserManaged {
		return domain.StatusValidated
	}

	return domain.StatusPublished
}

// Wait queries the deployment until it reaches target or FAILED.
// The delay between queries grows from poll.Interval up to poll.MaxInterval,
// the whole wait is bounded by poll.Timeout.
func Wait(
	ctx context.Context,
	querier StatusQuerier,
	id domain.ID,
	target domain.Status,
	poll config.Poll,
) (*central.Report, error) {
	ctx = logger.WithKV(ctx, "deployment_id", id.String())

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = poll.Interval
	policy.MaxInterval = poll.MaxInterval
	policy.MaxElapsedTime = poll.Timeout
	policy.Reset()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report, err := querier.Status(ctx, id)
		if err != nil {
			return nil, err
		}

		logger.InfoKV(ctx, "Deployment state", "state", string(report.State), "target", string(target))

		switch {
		case report.State == domain.StatusFailed:
			return report, fmt.Errorf("%w: %s", ErrDeploymentFailed, strings.Join(report.Errors, "; "))
		case report.State.Reached(target):
			return report, nil
		}

		delay := policy.NextBackOff()
		if delay == backoff.Stop {
			return report, fmt.Errorf("%w: last state %s", ErrWaitTimeout, report.State)
		}

		timer := time.NewTimer(delay)

		select {
		case <-ctx.Done():
			timer.Stop()

			return report, ctx.Err()
		case <-timer.C:
		}
	}
}
