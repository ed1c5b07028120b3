package http_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudras/stock-ledger/internal/application/dto"
)

func TestLocationHandler_CrearSoloAdmin(t *testing.T) {
	app := newLedgerApp(t)
	body := map[string]any{"name": "Local Norte", "kind": "venta", "address": "Av. Siempre Viva 742"}

	resp := doJSON(t, app, http.MethodPost, "/api/locations", "bodeguero", body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/locations", "admin", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[dto.LocationResponse](t, resp)
	assert.Equal(t, int64(4), created.ID)
	assert.True(t, created.Active)
	assert.Equal(t, "Av. Siempre Viva 742", created.Address)

	resp = doJSON(t, app, http.MethodPost, "/api/locations", "admin", map[string]any{"name": "X", "kind": "kiosco"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLocationHandler_ObtenerYActualizar(t *testing.T) {
	app := newLedgerApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/locations/2", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loc := decodeBody[dto.LocationResponse](t, resp)
	assert.Equal(t, "Local Centro", loc.Name)

	resp = doJSON(t, app, http.MethodGet, "/api/locations/42", "vendedor", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/api/locations/2", "admin", map[string]any{"active": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[dto.LocationResponse](t, resp)
	assert.False(t, updated.Active)

	// Un punto desactivado deja de aceptar movimientos.
	resp = doJSON(t, app, http.MethodPost, "/api/stock/adjustments", "admin", adjustBody(10, 2, 1))
	body := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INACTIVE_LOCATION", body.Code)

	resp = doJSON(t, app, http.MethodPut, "/api/locations/42", "admin", map[string]any{"name": "Nada"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLocationHandler_ListarYEstadisticas(t *testing.T) {
	app := newLedgerApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/stock/adjustments", "admin", adjustBody(10, 1, 8))
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/locations?limit=2", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[dto.LocationListResponse](t, resp)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 2, list.Page.Limit)

	resp = doJSON(t, app, http.MethodGet, "/api/locations/stats", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decodeBody[dto.LocationStatsResponse](t, resp)
	assert.Equal(t, 3, stats.TotalLocations)
	assert.Equal(t, 2, stats.SalePoints)
	assert.Equal(t, 1, stats.Warehouses)
	assert.Equal(t, 2, stats.ActiveLocations)
	assert.Equal(t, 1, stats.ArticlesWithStock)
	assert.Equal(t, 1, stats.MovementsToday)
}

func TestLocationHandler_StockYReportePDF(t *testing.T) {
	app := newLedgerApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/stock/bulk-assignments", "admin", map[string]any{
		"destination_id": 1,
		"lines":          []map[string]any{{"article_id": 10, "quantity": 5}, {"article_id": 11, "quantity": 7}},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/locations/1/stock", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stock := decodeBody[dto.StockListResponse](t, resp)
	assert.Len(t, stock.Items, 2)

	resp = doJSON(t, app, http.MethodGet, "/api/locations/9/stock", "vendedor", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/locations/1/stock.pdf", "vendedor", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, len(raw) > 4 && string(raw[:4]) == "%PDF")
}
