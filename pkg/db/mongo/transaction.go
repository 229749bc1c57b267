package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// TransactionFunc receives the session context. Repositories called with it
// join the transaction.
type TransactionFunc = func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client  *mongo.Client
	opts    *options.TransactionOptions
	timeout time.Duration
}

// NewTransactionManager runs transactions with majority read and write
// concern on the primary, so a committed booking is visible to the next
// conflict check on any node. timeout bounds the whole unit of work,
// including driver retries of transient errors; zero means no extra bound.
func NewTransactionManager(client *mongo.Client, timeout time.Duration) TransactionManager {
	maxCommit := timeout
	return &mongoTransactionManager{
		client: client,
		opts: options.Transaction().
			SetReadConcern(readconcern.Majority()).
			SetWriteConcern(writeconcern.Majority()).
			SetReadPreference(readpref.Primary()).
			SetMaxCommitTime(&maxCommit),
		timeout: timeout,
	}
}

// ExecuteTransaction runs fn inside a transaction. Errors returned by fn are
// passed through unchanged so callers can match on them.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	var fnErr error
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		fnErr = fn(sessCtx)
		return nil, fnErr
	}, m.opts)

	switch {
	case err == nil:
		return nil
	case fnErr != nil:
		return fnErr
	default:
		return fmt.Errorf("transaction failed: %w", err)
	}
}
