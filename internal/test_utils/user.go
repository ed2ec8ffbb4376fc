package test_utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise/pennywise/pkg/user"
	"github.com/stretchr/testify/require"
)

// TestUser is the identity placed in the context of service and handler tests.
var TestUser = user.User{
	Id:        123,
	Uid:       "00000000-0000-0000-0000-000000000123",
	Email:     "test@example.com",
	FirstName: "Test",
	LastName:  "User",
}

// ContextWithTestUser returns ctx carrying TestUser, or the given user when provided.
func ContextWithTestUser(ctx context.Context, u ...user.User) context.Context {
	if len(u) > 0 {
		return user.WithUser(ctx, u[0])
	}
	return user.WithUser(ctx, TestUser)
}

// InsertUser stores a user row so repository tests can satisfy the user foreign keys.
func InsertUser(t *testing.T, ctx context.Context, db *pgxpool.Pool, email string) int {
	t.Helper()
	var id int
	err := db.QueryRow(ctx,
		`INSERT INTO users (uid, email, first_name, last_name, password_hash) VALUES ($1, $2, '', '', 'x') RETURNING id`,
		uuid.NewString(), email,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
