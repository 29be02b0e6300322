package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/speakaussie/server/domain/repositories"
)

// TransactionManager runs callbacks inside a MongoDB multi-document
// transaction. The session-end transition and the usage-ledger upsert go
// through here so they commit together or not at all. Requires the server
// to be a replica set; standalone deployments should use the memory store.
type TransactionManager struct {
	client *mongo.Client
}

// NewTransactionManager creates a transaction manager for the client.
func NewTransactionManager(client *Client) repositories.Transactor {
	return &TransactionManager{client: client.Client}
}

// WithinTransaction implements repositories.Transactor. The context passed
// to fn is a session context; repository operations using it join the
// transaction.
func (t *TransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
