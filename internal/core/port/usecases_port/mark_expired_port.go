package usecases_port

import "context"

type MarkExpiredUseCase interface {
	// Execute sweeps active listings past their expiration and returns how
	// many were flipped.
	Execute(ctx context.Context) (int, error)
}
