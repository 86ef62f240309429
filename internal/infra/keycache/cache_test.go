package keycache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingValidator struct {
	calls int
	valid bool
	err   error
}

func (v *countingValidator) ValidateKey(_ context.Context, _ string) (bool, error) {
	v.calls++
	return v.valid, v.err
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestIsValidCachesWithinTTL(t *testing.T) {
	validator := &countingValidator{valid: true}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := New(Options{Validator: validator, TTL: 5 * time.Minute, Now: clock.Now})

	valid, err := cache.IsValid(context.Background(), "sk-key")
	require.NoError(t, err)
	require.True(t, valid)
	require.Equal(t, 1, validator.calls)

	clock.Advance(4 * time.Minute)
	valid, err = cache.IsValid(context.Background(), "sk-key")
	require.NoError(t, err)
	require.True(t, valid)
	require.Equal(t, 1, validator.calls, "second call within TTL must not revalidate")
}

func TestIsValidRefreshesAfterExpiry(t *testing.T) {
	validator := &countingValidator{valid: true}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := New(Options{Validator: validator, TTL: 5 * time.Minute, Now: clock.Now})

	_, err := cache.IsValid(context.Background(), "sk-key")
	require.NoError(t, err)
	_, err = cache.IsValid(context.Background(), "sk-key")
	require.NoError(t, err)
	require.Equal(t, 1, validator.calls)

	clock.Advance(5*time.Minute + time.Second)
	_, err = cache.IsValid(context.Background(), "sk-key")
	require.NoError(t, err)
	require.Equal(t, 2, validator.calls, "expired entry must trigger revalidation")
}

func TestIsValidCachesInvalidResult(t *testing.T) {
	validator := &countingValidator{valid: false}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := New(Options{Validator: validator, TTL: time.Minute, Now: clock.Now})

	valid, err := cache.IsValid(context.Background(), "revoked")
	require.NoError(t, err)
	require.False(t, valid)

	valid, err = cache.IsValid(context.Background(), "revoked")
	require.NoError(t, err)
	require.False(t, valid)
	require.Equal(t, 1, validator.calls)
}

func TestIsValidDoesNotCacheFailures(t *testing.T) {
	validator := &countingValidator{err: errors.New("backend down")}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := New(Options{Validator: validator, TTL: time.Minute, Now: clock.Now})

	_, err := cache.IsValid(context.Background(), "sk-key")
	require.Error(t, err)

	validator.err = nil
	validator.valid = true
	valid, err := cache.IsValid(context.Background(), "sk-key")
	require.NoError(t, err)
	require.True(t, valid)
	require.Equal(t, 2, validator.calls)
}

func TestInvalidateDropsEntry(t *testing.T) {
	validator := &countingValidator{valid: true}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := New(Options{Validator: validator, TTL: time.Hour, Now: clock.Now})

	_, err := cache.IsValid(context.Background(), "sk-key")
	require.NoError(t, err)
	cache.Invalidate("sk-key")
	_, err = cache.IsValid(context.Background(), "sk-key")
	require.NoError(t, err)
	require.Equal(t, 2, validator.calls)
}

func TestEmptyKeyIsInvalidWithoutRemoteCall(t *testing.T) {
	validator := &countingValidator{valid: true}
	cache := New(Options{Validator: validator, TTL: time.Minute})

	valid, err := cache.IsValid(context.Background(), "")
	require.NoError(t, err)
	require.False(t, valid)
	require.Zero(t, validator.calls)
}
