package repository

import (
	"context"

	"line-relay/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

// UserRegistry is the append-only set of user ids seen in inbound events.
// Implementations must be safe for concurrent use: two concurrent
// RecordIfNew calls with the same unseen id must not both report true.
type UserRegistry interface {
	Contains(ctx context.Context, id model.UserID) (bool, error)
	// RecordIfNew inserts id when absent and reports whether it did.
	RecordIfNew(ctx context.Context, id model.UserID) (bool, error)
	// List returns every recorded id in no guaranteed order.
	List(ctx context.Context) ([]model.UserID, error)
}
