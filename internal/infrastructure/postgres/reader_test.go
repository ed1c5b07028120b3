package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mudras/stock-ledger/internal/domain/repository"
	"github.com/mudras/stock-ledger/internal/infrastructure/postgres"
)

func TestReaders_NoExponenEscrituras(t *testing.T) {
	_, ok := postgres.NewStockReader(nil).(repository.StockRepository)
	assert.False(t, ok, "el stock sobre el pool no debe ofrecer Set")

	_, ok = postgres.NewMovementReader(nil).(repository.MovementRepository)
	assert.False(t, ok, "el historial sobre el pool no debe ofrecer Append")
}
