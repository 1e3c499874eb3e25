package repository

import (
	"context"
	"errors"

	"wallboard/config"

	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type TxManager struct {
	*config.Database
}

func NewTxManager(database *config.Database) *TxManager {
	return &TxManager{database}
}

func (m *TxManager) Executor() sqlx.ExtContext {
	return m.DB
}

// BeginTX : rollback after a successful commit is a no-op, so callers can always defer it
func (m *TxManager) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation
}
