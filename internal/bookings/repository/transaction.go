package repository

import (
	"camrent/pkg/config"
	mongotx "camrent/pkg/db/mongo"
)

// NewTransactionManager bounds each unit of work by the lock TTL. Committers
// also renew their item lock inside the transaction, so a transaction that
// outlives its lock aborts rather than committing unguarded.
func NewTransactionManager(cfg *config.Config) mongotx.TransactionManager {
	return mongotx.NewTransactionManager(cfg.Client.Mongo, cfg.BookingLockTTL)
}
