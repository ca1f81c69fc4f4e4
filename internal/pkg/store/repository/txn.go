package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxnRunner executes a function inside one storage transaction. Schedule
// regeneration uses it so the delete-then-insert sequence never leaves a
// partial plan installed.
type TxnRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTxnRunner runs the function inside a mongo session transaction.
type MongoTxnRunner struct {
	client *mongo.Client
}

func NewMongoTxnRunner(client *mongo.Client) *MongoTxnRunner {
	return &MongoTxnRunner{client: client}
}

func (r *MongoTxnRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

// PassthroughTxnRunner calls the function directly, for deployments without
// replica sets and for tests.
type PassthroughTxnRunner struct{}

func (PassthroughTxnRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
