package dto

import "time"

// CreateLocationRequest entrada para crear un punto Mudras. kind: "venta" o "deposito".
type CreateLocationRequest struct {
	Name                string `json:"name"`
	Kind                string `json:"kind"`
	Active              *bool  `json:"active,omitempty"`
	Description         string `json:"description"`
	Address             string `json:"address"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	AllowsOnlineSales   bool   `json:"allows_online_sales"`
	TracksPhysicalStock bool   `json:"tracks_physical_stock"`
}

// UpdateLocationRequest entrada para actualizar un punto; solo se modifican los campos presentes.
type UpdateLocationRequest struct {
	Name                *string `json:"name"`
	Kind                *string `json:"kind"`
	Active              *bool   `json:"active"`
	Description         *string `json:"description"`
	Address             *string `json:"address"`
	Phone               *string `json:"phone"`
	Email               *string `json:"email"`
	AllowsOnlineSales   *bool   `json:"allows_online_sales"`
	TracksPhysicalStock *bool   `json:"tracks_physical_stock"`
}

// LocationResponse salida de un punto.
type LocationResponse struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Kind                string    `json:"kind"`
	Active              bool      `json:"active"`
	Description         string    `json:"description"`
	Address             string    `json:"address"`
	Phone               string    `json:"phone"`
	Email               string    `json:"email"`
	AllowsOnlineSales   bool      `json:"allows_online_sales"`
	TracksPhysicalStock bool      `json:"tracks_physical_stock"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// LocationListResponse lista paginada de puntos.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LocationStatsResponse estadísticas de puntos y stock.
type LocationStatsResponse struct {
	TotalLocations    int `json:"total_locations"`
	SalePoints        int `json:"sale_points"`
	Warehouses        int `json:"warehouses"`
	ActiveLocations   int `json:"active_locations"`
	ArticlesWithStock int `json:"articles_with_stock"`
	MovementsToday    int `json:"movements_today"`
}
