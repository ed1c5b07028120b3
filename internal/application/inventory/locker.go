package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	dominv "github.com/mudras/stock-ledger/internal/domain/inventory"
)

// DefaultLockTimeout espera máxima para adquirir las claves de una operación.
const DefaultLockTimeout = 5 * time.Second

// KeyLocker serializa operaciones por clave (artículo, punto) dentro del proceso.
// Las operaciones con claves disjuntas avanzan en paralelo; las claves se toman siempre
// en orden (LocationID, ArticleID) para evitar interbloqueos.
type KeyLocker struct {
	mu      sync.Mutex
	slots   map[entity.StockKey]*keySlot
	timeout time.Duration
}

type keySlot struct {
	sem  chan struct{}
	refs int
}

// NewKeyLocker construye el locker. timeout <= 0 usa DefaultLockTimeout.
func NewKeyLocker(timeout time.Duration) *KeyLocker {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &KeyLocker{slots: make(map[entity.StockKey]*keySlot), timeout: timeout}
}

// Lock adquiere todas las claves o ninguna. Si no lo logra dentro del timeout devuelve
// ErrOperationTimeout; si ctx se cancela devuelve ctx.Err(). La función devuelta libera las claves.
func (l *KeyLocker) Lock(ctx context.Context, keys []entity.StockKey) (func(), error) {
	sorted := dominv.SortKeys(keys)
	deadline := time.NewTimer(l.timeout)
	defer deadline.Stop()

	acquired := make([]entity.StockKey, 0, len(sorted))
	for _, k := range sorted {
		slot := l.ref(k)
		select {
		case slot.sem <- struct{}{}:
			acquired = append(acquired, k)
		case <-deadline.C:
			l.unref(k)
			l.release(acquired)
			return nil, domain.ErrOperationTimeout
		case <-ctx.Done():
			l.unref(k)
			l.release(acquired)
			return nil, ctx.Err()
		}
	}
	var once sync.Once
	return func() { once.Do(func() { l.release(acquired) }) }, nil
}

func (l *KeyLocker) ref(k entity.StockKey) *keySlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[k]
	if !ok {
		slot = &keySlot{sem: make(chan struct{}, 1)}
		l.slots[k] = slot
	}
	slot.refs++
	return slot
}

func (l *KeyLocker) unref(k entity.StockKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot := l.slots[k]
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, k)
	}
}

func (l *KeyLocker) release(keys []entity.StockKey) {
	for _, k := range keys {
		l.mu.Lock()
		slot := l.slots[k]
		l.mu.Unlock()
		<-slot.sem
		l.unref(k)
	}
}

// pending devuelve cuántas claves tienen referencias vivas (para tests).
func (l *KeyLocker) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

// waiters devuelve cuántas operaciones retienen o esperan la clave (para tests).
func (l *KeyLocker) waiters(k entity.StockKey) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if slot, ok := l.slots[k]; ok {
		return slot.refs
	}
	return 0
}
