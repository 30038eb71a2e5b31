package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectPostgres_BadDSN(t *testing.T) {
	pool, err := ConnectPostgres(context.Background(), "postgres://user@localhost:notaport/portal")
	require.Error(t, err)
	assert.Nil(t, pool)
	assert.Contains(t, err.Error(), "parse postgres dsn")
}

func TestOpenSessionStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store, closeFn, err := OpenSessionStore(ctx, "postgres://portal@127.0.0.1:1/portal?connect_timeout=1")
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Nil(t, closeFn)
}
