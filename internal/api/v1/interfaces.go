package v1

import (
	"context"

	"github.com/gosuda/reserva/internal/domain"
)

// InvalidationPublisher fans tenant cache invalidations out to other process
// replicas. *redis.PubSub satisfies this interface.
type InvalidationPublisher interface {
	PublishInvalidation(ctx context.Context, id domain.TenantID) error
}
