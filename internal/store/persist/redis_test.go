package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data    map[string]string
	expires map[string]time.Duration
	err     error
	closed  bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, expires: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		return redis.NewStatusResult("", errors.New("unexpected value type"))
	}
	f.expires[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisStore_SaveThenLoad(t *testing.T) {
	client := newFakeRedis()
	rs := &RedisStore{client: client, key: "kampai-delivery-storage"}
	ctx := context.Background()

	data, err := rs.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, rs.Save(ctx, []byte(`{"version":1}`)))
	require.NoError(t, rs.Save(ctx, []byte(`{"version":1,"language":"he"}`)))

	data, err = rs.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"language":"he"}`, string(data))
	assert.Len(t, client.data, 1)
	assert.Zero(t, client.expires["kampai-delivery-storage"], "snapshot must not expire")

	require.NoError(t, rs.Close())
	assert.True(t, client.closed)
}

func TestRedisStore_KeysAreIndependent(t *testing.T) {
	client := newFakeRedis()
	ctx := context.Background()
	a := &RedisStore{client: client, key: "a"}
	b := &RedisStore{client: client, key: "b"}

	require.NoError(t, a.Save(ctx, []byte(`{"version":1}`)))
	data, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestRedisStore_Errors(t *testing.T) {
	client := newFakeRedis()
	client.err = errors.New("connection reset")
	rs := &RedisStore{client: client, key: "k"}
	ctx := context.Background()

	_, err := rs.Load(ctx)
	assert.ErrorContains(t, err, "persist.RedisStore.Load")
	assert.ErrorContains(t, err, "connection reset")

	err = rs.Save(ctx, []byte(`{}`))
	assert.ErrorContains(t, err, "persist.RedisStore.Save")
}
