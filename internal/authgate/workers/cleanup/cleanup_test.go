package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medgate/internal/authgate/models"
	"medgate/internal/authgate/store/authorization"
	"medgate/internal/authgate/store/nonce"
)

type failingStore struct{}

func (failingStore) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, errors.New("store unavailable")
}

func TestNew_RequiresStores(t *testing.T) {
	_, err := New(nil, nonce.NewInMemoryStore())
	assert.Error(t, err)

	_, err = New(authorization.NewInMemoryStore(), nil)
	assert.Error(t, err)
}

func TestRunOnce_SweepsBothStores(t *testing.T) {
	ctx := context.Background()
	authzStore := authorization.NewInMemoryStore()
	nonceStore := nonce.NewInMemoryStore()

	require.NoError(t, authzStore.Put(ctx, &models.AuthorizationRecord{
		Email:        "stale@clinic.example.com",
		Authorized:   true,
		AuthorizedAt: time.Now().Add(-25 * time.Hour),
	}, -time.Second))
	_, err := nonceStore.Consume(ctx, "stale-jti", -time.Second)
	require.NoError(t, err)

	svc, err := New(authzStore, nonceStore)
	require.NoError(t, err)

	res, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.DeletedRecords)
	assert.Equal(t, 1, res.DeletedNonces)
}

func TestRunOnce_PartialFailureStillSweeps(t *testing.T) {
	ctx := context.Background()
	nonceStore := nonce.NewInMemoryStore()
	_, err := nonceStore.Consume(ctx, "stale-jti", -time.Second)
	require.NoError(t, err)

	svc, err := New(failingStore{}, nonceStore)
	require.NoError(t, err)

	res, err := svc.RunOnce(ctx)
	assert.Error(t, err)
	assert.Equal(t, 1, res.DeletedNonces)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	svc, err := New(authorization.NewInMemoryStore(), nonce.NewInMemoryStore(),
		WithInterval(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cleanup worker did not stop")
	}
}
