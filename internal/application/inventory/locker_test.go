package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
)

func TestKeyLocker_Timeout(t *testing.T) {
	l := NewKeyLocker(20 * time.Millisecond)
	key := []entity.StockKey{{ArticleID: 1, LocationID: 1}}

	unlock, err := l.Lock(context.Background(), key)
	require.NoError(t, err)

	_, err = l.Lock(context.Background(), key)
	require.ErrorIs(t, err, domain.ErrOperationTimeout)

	unlock()
	unlock() // idempotente
	assert.Equal(t, 0, l.pending())
}

func TestKeyLocker_CancelacionDeContexto(t *testing.T) {
	l := NewKeyLocker(time.Second)
	keys := []entity.StockKey{{ArticleID: 1, LocationID: 1}, {ArticleID: 1, LocationID: 2}}

	unlock, err := l.Lock(context.Background(), keys[1:])
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lock(ctx, keys)
	require.ErrorIs(t, err, context.Canceled)

	unlock()
	assert.Equal(t, 0, l.pending())
}

func TestKeyLocker_ClavesDisjuntas(t *testing.T) {
	l := NewKeyLocker(50 * time.Millisecond)

	u1, err := l.Lock(context.Background(), []entity.StockKey{{ArticleID: 1, LocationID: 1}})
	require.NoError(t, err)
	u2, err := l.Lock(context.Background(), []entity.StockKey{{ArticleID: 2, LocationID: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, l.pending())

	u1()
	u2()
	assert.Equal(t, 0, l.pending())
}

func TestKeyLocker_LiberaYDesbloqueaEspera(t *testing.T) {
	l := NewKeyLocker(time.Second)
	key := []entity.StockKey{{ArticleID: 7, LocationID: 3}}

	unlock, err := l.Lock(context.Background(), key)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		u, err := l.Lock(context.Background(), key)
		if err == nil {
			u()
		}
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	unlock()
	require.NoError(t, <-done)
	assert.Equal(t, 0, l.pending())
}

func TestKeyLocker_ClavesRepetidas(t *testing.T) {
	l := NewKeyLocker(20 * time.Millisecond)
	k := entity.StockKey{ArticleID: 1, LocationID: 1}

	unlock, err := l.Lock(context.Background(), []entity.StockKey{k, k})
	require.NoError(t, err)
	unlock()
	assert.Equal(t, 0, l.pending())
}
