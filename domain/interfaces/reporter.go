package interfaces

import (
	"context"

	"remote_e2e/domain/entities"
)

// Reporter delivers a run's pass/fail status to the collection endpoint
type Reporter interface {
	Report(ctx context.Context, payload entities.ResultPayload) entities.ReportResult
}
