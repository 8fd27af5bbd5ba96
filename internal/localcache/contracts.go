// Package localcache holds demo-mode sales reports: records captured while no
// real branch could be resolved against the hosted store. The cache is one
// named slot holding the full JSON list, read-modify-written wholesale.
//
// Known limitation, kept on purpose: there is no optimistic-concurrency check
// on the slot, so two concurrent writers can silently drop one side's update.
// Acceptable for a single-operator tool.
package localcache

import (
	"context"

	"github.com/sculptbody/cierre-backend/internal/entity"
)

// Store is the injected cache abstraction the persistence router and the
// reconciliation service depend on.
type Store interface {
	Read(ctx context.Context) ([]entity.SalesReport, error)
	Write(ctx context.Context, reports []entity.SalesReport) error
}
