package extract

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serendib-labs/mapleads/internal/model"
	"github.com/serendib-labs/mapleads/internal/resilience"
)

// fakeExtractor scripts per-call outcomes.
type fakeExtractor struct {
	calls int
	errs  []error
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) Extract(_ context.Context, _ model.SearchParameters) (*Extraction, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return &Extraction{Businesses: []RawBusiness{{Name: "Cafe X"}}}, nil
}

func TestRetryingRecoversFromTransientFailure(t *testing.T) {
	fake := &fakeExtractor{errs: []error{resilience.NewTransientError(eris.New("proxy error")), nil}}
	r := NewRetrying(fake, resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		JitterFraction: 0,
	})

	ext, err := r.Extract(context.Background(), model.SearchParameters{Query: "cafe"})
	require.NoError(t, err)
	require.Len(t, ext.Businesses, 1)
	assert.Equal(t, 2, fake.calls)
	assert.Equal(t, "fake", r.Name())
}

func TestRetryingGivesUpOnPermanentError(t *testing.T) {
	fake := &fakeExtractor{errs: []error{eris.New("bad parameters"), nil}}
	r := NewRetrying(fake, resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond})

	_, err := r.Extract(context.Background(), model.SearchParameters{Query: "cafe"})
	assert.Error(t, err)
	assert.Equal(t, 1, fake.calls)
}

func TestBreakeredShortCircuits(t *testing.T) {
	boom := eris.New("session blocked")
	fake := &fakeExtractor{errs: []error{boom, boom, boom, nil}}
	b := NewBreakered(fake, resilience.NewCircuitBreaker(2, time.Hour))

	for i := 0; i < 2; i++ {
		_, err := b.Extract(context.Background(), model.SearchParameters{})
		assert.Error(t, err)
	}

	// Circuit is open now; the backend is no longer called.
	_, err := b.Extract(context.Background(), model.SearchParameters{})
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 2, fake.calls)
}

func TestRateLimitedDelegates(t *testing.T) {
	fake := &fakeExtractor{}
	rl := NewRateLimited(fake, 6000) // effectively unlimited for the test

	ext, err := rl.Extract(context.Background(), model.SearchParameters{Query: "pharmacy"})
	require.NoError(t, err)
	assert.Len(t, ext.Businesses, 1)
	assert.Equal(t, 1, fake.calls)
}

func TestRateLimitedHonorsCancellation(t *testing.T) {
	fake := &fakeExtractor{}
	rl := NewRateLimited(fake, 0.0001)

	// Burn the initial token.
	_, err := rl.Extract(context.Background(), model.SearchParameters{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = rl.Extract(ctx, model.SearchParameters{})
	assert.Error(t, err)
	assert.Equal(t, 1, fake.calls)
}
