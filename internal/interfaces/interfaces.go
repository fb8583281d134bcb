package interfaces

import (
	"context"

	"regtest-transfer/internal/models"
)

// EventEmitter defines the interface for publishing a finished report
type EventEmitter interface {
	EmitEvent(ctx context.Context, event models.ReportEvent) error
}
