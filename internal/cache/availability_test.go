package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"suit-rental-backend/internal/domain"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) MGet(ctx context.Context, keys ...string) *redis.SliceCmd {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return redis.NewSliceResult(nil, args.Error(1))
	}
	return redis.NewSliceResult(args.Get(0).([]interface{}), args.Error(1))
}

func (m *MockClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	ret := m.Called(ctx, script, keys, args)
	return redis.NewCmdResult(ret.Get(0), ret.Error(1))
}

func (m *MockClient) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	ret := m.Called(ctx, sha1, keys, args)
	return redis.NewCmdResult(ret.Get(0), ret.Error(1))
}

func (m *MockClient) EvalRO(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	ret := m.Called(ctx, script, keys, args)
	return redis.NewCmdResult(ret.Get(0), ret.Error(1))
}

func (m *MockClient) EvalShaRO(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	ret := m.Called(ctx, sha1, keys, args)
	return redis.NewCmdResult(ret.Get(0), ret.Error(1))
}

func (m *MockClient) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	args := m.Called(ctx, hashes)
	return redis.NewBoolSliceResult(nil, args.Error(0))
}

func (m *MockClient) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	args := m.Called(ctx, script)
	return redis.NewStringResult(args.String(0), args.Error(1))
}

// scriptMissing is how Redis answers EVALSHA for a script it has not cached.
type scriptMissing string

func (e scriptMissing) Error() string { return string(e) }
func (scriptMissing) RedisError()     {}

const prefix = "suit-rental:availability:"

var keys7 = []string{prefix + "7", prefix + "7:gen"}

func TestAvailabilityCache_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		client := new(MockClient)
		client.On("MGet", ctx, keys7).Return([]interface{}{`["2025-06-10","2025-06-11"]`, "4"}, nil)

		days, hit, gen, err := NewAvailabilityCache(client, prefix, time.Minute).Get(ctx, 7)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, int64(4), gen)
		assert.Equal(t, []domain.Day{domain.NewDay(2025, 6, 10), domain.NewDay(2025, 6, 11)}, days)
	})

	t.Run("miss still reports the generation", func(t *testing.T) {
		client := new(MockClient)
		client.On("MGet", ctx, keys7).Return([]interface{}{nil, "2"}, nil)

		days, hit, gen, err := NewAvailabilityCache(client, prefix, time.Minute).Get(ctx, 7)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Nil(t, days)
		assert.Equal(t, int64(2), gen)
	})

	t.Run("never invalidated suit is generation zero", func(t *testing.T) {
		client := new(MockClient)
		client.On("MGet", ctx, keys7).Return([]interface{}{nil, nil}, nil)

		_, hit, gen, err := NewAvailabilityCache(client, prefix, time.Minute).Get(ctx, 7)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Zero(t, gen)
	})

	t.Run("empty list is a hit", func(t *testing.T) {
		client := new(MockClient)
		client.On("MGet", ctx, keys7).Return([]interface{}{`[]`, nil}, nil)

		days, hit, _, err := NewAvailabilityCache(client, prefix, time.Minute).Get(ctx, 7)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.NotNil(t, days)
		assert.Empty(t, days)
	})

	t.Run("redis failure", func(t *testing.T) {
		client := new(MockClient)
		client.On("MGet", ctx, keys7).Return(nil, errors.New("connection refused"))

		_, hit, _, err := NewAvailabilityCache(client, prefix, time.Minute).Get(ctx, 7)
		assert.Error(t, err)
		assert.False(t, hit)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		client := new(MockClient)
		client.On("MGet", ctx, keys7).Return([]interface{}{`not json`, "1"}, nil)

		_, hit, _, err := NewAvailabilityCache(client, prefix, time.Minute).Get(ctx, 7)
		assert.Error(t, err)
		assert.False(t, hit)
	})

	t.Run("corrupt generation", func(t *testing.T) {
		client := new(MockClient)
		client.On("MGet", ctx, keys7).Return([]interface{}{`[]`, "x"}, nil)

		_, hit, _, err := NewAvailabilityCache(client, prefix, time.Minute).Get(ctx, 7)
		assert.Error(t, err)
		assert.False(t, hit)
	})
}

func TestAvailabilityCache_Set(t *testing.T) {
	ctx := context.Background()

	t.Run("guarded by the generation read earlier", func(t *testing.T) {
		client := new(MockClient)
		client.On("EvalSha", ctx, setIfCurrent.Hash(), keys7, []interface{}{int64(5), `["2025-06-10"]`, int64(90000)}).
			Return(int64(1), nil).Once()

		err := NewAvailabilityCache(client, prefix, 90*time.Second).Set(ctx, 7, 5, []domain.Day{domain.NewDay(2025, 6, 10)})
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("stale generation is dropped without error", func(t *testing.T) {
		client := new(MockClient)
		client.On("EvalSha", ctx, setIfCurrent.Hash(), keys7, mock.Anything).Return(int64(0), nil).Once()

		require.NoError(t, NewAvailabilityCache(client, prefix, time.Minute).Set(ctx, 7, 1, nil))
		client.AssertExpectations(t)
	})

	t.Run("nil stores an empty array", func(t *testing.T) {
		client := new(MockClient)
		client.On("EvalSha", ctx, setIfCurrent.Hash(), keys7, []interface{}{int64(0), `[]`, int64(60000)}).
			Return(int64(1), nil).Once()

		require.NoError(t, NewAvailabilityCache(client, prefix, time.Minute).Set(ctx, 7, 0, nil))
		client.AssertExpectations(t)
	})

	t.Run("script is loaded when redis lost it", func(t *testing.T) {
		client := new(MockClient)
		client.On("EvalSha", ctx, setIfCurrent.Hash(), keys7, mock.Anything).
			Return(nil, scriptMissing("NOSCRIPT No matching script")).Once()
		client.On("Eval", ctx, mock.AnythingOfType("string"), keys7, mock.Anything).Return(int64(1), nil).Once()

		require.NoError(t, NewAvailabilityCache(client, prefix, time.Minute).Set(ctx, 7, 0, nil))
		client.AssertExpectations(t)
	})

	t.Run("redis failure", func(t *testing.T) {
		client := new(MockClient)
		client.On("EvalSha", ctx, setIfCurrent.Hash(), keys7, mock.Anything).Return(nil, errors.New("timeout"))

		assert.Error(t, NewAvailabilityCache(client, prefix, time.Minute).Set(ctx, 7, 0, nil))
	})
}

func TestAvailabilityCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	keys4 := []string{prefix + "4", prefix + "4:gen"}
	client := new(MockClient)
	client.On("EvalSha", ctx, bumpGeneration.Hash(), keys7, mock.Anything).Return(int64(3), nil).Once()
	client.On("EvalSha", ctx, bumpGeneration.Hash(), keys4, mock.Anything).Return(nil, errors.New("timeout")).Once()

	c := NewAvailabilityCache(client, prefix, time.Minute)
	require.NoError(t, c.Invalidate(ctx, 7))
	assert.Error(t, c.Invalidate(ctx, 4))
	client.AssertExpectations(t)
}
