package ports

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// TxManager : hands out the plain connection or a transaction for repository calls
type TxManager interface {
	Executor() sqlx.ExtContext
	BeginTX(ctx context.Context) (exec sqlx.ExtContext, rollback func() error, commit func() error, err error)
}

// ChangePublisher : announces that the query results behind topics changed
type ChangePublisher interface {
	Publish(ctx context.Context, topics ...string)
}
