package offer

import (
	"context"

	"ownerdesk/internal/gateway"
)

type Gateway interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}
