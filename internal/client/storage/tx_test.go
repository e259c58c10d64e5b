package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithTx_RollsBackOnError(t *testing.T) {
	s, db := setupStorage(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := withTx(ctx, db, func(ctx context.Context, tx dbtx) error {
		require.NoError(t, set(ctx, tx, "token", []byte("t")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestWithTx_RollsBackAndRethrowsPanic(t *testing.T) {
	s, db := setupStorage(t)
	ctx := context.Background()

	require.Panics(t, func() {
		_ = withTx(ctx, db, func(ctx context.Context, tx dbtx) error {
			_ = set(ctx, tx, "token", []byte("t"))
			panic("kaboom")
		})
	})

	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	require.Nil(t, v)
}
