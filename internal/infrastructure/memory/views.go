package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
)

// ── stock fuera de transacción ───────────────────────────────────────────────

type stockView struct{ s *Store }

func (v *stockView) Get(_ context.Context, articleID, locationID int64) (*entity.StockRecord, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	rec := v.s.record(entity.StockKey{ArticleID: articleID, LocationID: locationID})
	return &rec, nil
}

func (v *stockView) ListByLocation(_ context.Context, locationID int64) ([]*entity.StockRecord, error) {
	return v.filter(func(k entity.StockKey) bool { return k.LocationID == locationID }), nil
}

func (v *stockView) ListByArticle(_ context.Context, articleID int64) ([]*entity.StockRecord, error) {
	return v.filter(func(k entity.StockKey) bool { return k.ArticleID == articleID }), nil
}

func (v *stockView) CountArticlesWithStock(context.Context) (int, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	articles := make(map[int64]struct{})
	for k, rec := range v.s.records {
		if rec.Quantity.IsPositive() {
			articles[k.ArticleID] = struct{}{}
		}
	}
	return len(articles), nil
}

func (v *stockView) filter(match func(entity.StockKey) bool) []*entity.StockRecord {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	out := make([]*entity.StockRecord, 0)
	for k, rec := range v.s.records {
		if match(k) {
			cp := rec
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *entity.StockRecord) int {
		if c := cmp.Compare(a.LocationID, b.LocationID); c != 0 {
			return c
		}
		return cmp.Compare(a.ArticleID, b.ArticleID)
	})
	return out
}

// ── historial fuera de transacción ───────────────────────────────────────────

type movementView struct{ s *Store }

func (v *movementView) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	m, ok := v.s.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (v *movementView) GetRelated(_ context.Context, id int64) (*entity.Movement, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	m, ok := v.s.movements[id]
	if !ok || m.RelatedMovementID == nil {
		return nil, nil
	}
	related, ok := v.s.movements[*m.RelatedMovementID]
	if !ok {
		return nil, fmt.Errorf("movimiento %d: pareja %d ausente: %w", id, *m.RelatedMovementID, domain.ErrNotFound)
	}
	cp := *related
	return &cp, nil
}

func (v *movementView) ListForArticleLocation(_ context.Context, articleID, locationID int64) ([]*entity.Movement, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	ids := v.s.byPair[entity.StockKey{ArticleID: articleID, LocationID: locationID}]
	out := make([]*entity.Movement, 0, len(ids))
	for _, id := range ids {
		cp := *v.s.movements[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (v *movementView) SumDeltas(ctx context.Context, articleID, locationID int64) (decimal.Decimal, error) {
	list, err := v.ListForArticleLocation(ctx, articleID, locationID)
	if err != nil {
		return decimal.Zero, err
	}
	return sumDeltas(list), nil
}

func (v *movementView) CountSince(_ context.Context, since time.Time) (int, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	n := 0
	for _, m := range v.s.movements {
		if !m.Timestamp.Before(since) {
			n++
		}
	}
	return n, nil
}

// ── puntos ───────────────────────────────────────────────────────────────────

type locationRepo struct{ s *Store }

func (r *locationRepo) Create(_ context.Context, loc *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if loc.ID == 0 {
		r.s.nextLocID++
		loc.ID = r.s.nextLocID
	} else if _, ok := r.s.locations[loc.ID]; ok {
		return fmt.Errorf("punto %d ya existe: %w", loc.ID, domain.ErrInvalidInput)
	} else if loc.ID > r.s.nextLocID {
		r.s.nextLocID = loc.ID
	}
	now := r.s.now()
	loc.CreatedAt, loc.UpdatedAt = now, now
	cp := *loc
	r.s.locations[loc.ID] = &cp
	return nil
}

func (r *locationRepo) GetByID(_ context.Context, id int64) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	loc, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *loc
	return &cp, nil
}

func (r *locationRepo) Update(_ context.Context, loc *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.locations[loc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	loc.CreatedAt = prev.CreatedAt
	loc.UpdatedAt = r.s.now()
	cp := *loc
	r.s.locations[loc.ID] = &cp
	return nil
}

func (r *locationRepo) List(_ context.Context, limit, offset int) ([]*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Location, 0, len(r.s.locations))
	for _, loc := range r.s.locations {
		cp := *loc
		all = append(all, &cp)
	}
	slices.SortFunc(all, func(a, b *entity.Location) int { return cmp.Compare(a.ID, b.ID) })
	if offset >= len(all) {
		return []*entity.Location{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
