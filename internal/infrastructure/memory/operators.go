package memory

import (
	"context"

	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
)

type operatorRepo struct{ s *Store }

func (r *operatorRepo) Create(_ context.Context, op *entity.Operator) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.operators[op.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	cp := *op
	r.s.operators[op.Email] = &cp
	return nil
}

func (r *operatorRepo) FindByEmail(_ context.Context, email string) (*entity.Operator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	op, ok := r.s.operators[email]
	if !ok {
		return nil, nil
	}
	cp := *op
	return &cp, nil
}

func (r *operatorRepo) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.operators), nil
}
