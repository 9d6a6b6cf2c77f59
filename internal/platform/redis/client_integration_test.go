//go:build integration

package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"casebook/internal/platform/config"
	"casebook/pkg/testutil/containers"
)

func TestOpen(t *testing.T) {
	rc := containers.StartRedis(t)

	client, err := Open(context.Background(), config.RedisConfig{URL: rc.URL, PoolSize: 2})
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()).Err())
}

func TestOpenWithoutURL(t *testing.T) {
	client, err := Open(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	require.Nil(t, client)
}
