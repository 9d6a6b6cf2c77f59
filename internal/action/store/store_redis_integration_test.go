//go:build integration

package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casebook/internal/action/store"
	domain "casebook/internal/jurisdiction/models"
	"casebook/pkg/platform/sentinel"
	"casebook/pkg/testutil/containers"
)

func TestRedisStore(t *testing.T) {
	rc := containers.StartRedis(t)
	s := store.NewRedisStore(rc.Client, time.Minute)
	ctx := context.Background()

	_, err := s.Find(ctx, "0xa")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	action := domain.Action{GUID: "0xa", Metadata: json.RawMessage(`{"name":"theft"}`)}
	require.NoError(t, s.Save(ctx, action))

	found, err := s.Find(ctx, "0xa")
	require.NoError(t, err)
	assert.Equal(t, "0xa", found.GUID)
	assert.JSONEq(t, `{"name":"theft"}`, string(found.Metadata))

	ttl, err := rc.Client.TTL(ctx, "casebook:action:0xa").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
