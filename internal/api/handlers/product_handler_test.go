package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductEndpoints_CRUD(t *testing.T) {
	router, repo, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/products", []byte(`{
		"stock_name": "House Blend 500g",
		"min_stock_level": 20,
		"history": [
			{"date": "2024-03-01", "daily_sales": 4, "stock_quantity": 80},
			{"date": "2024-03-02", "daily_sales": 6, "stock_quantity": 74}
		]
	}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID   int64  `json:"id"`
		Name string `json:"stock_name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "House Blend 500g", created.Name)
	require.Contains(t, repo.products, created.ID)

	rec = doRequest(router, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/products/1/history",
		[]byte(`[{"date": "2024-01-31", "daily_sales": 9, "stock_quantity": 190}]`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(router, http.MethodDelete, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, repo.products, int64(1))

	rec = doRequest(router, http.MethodGet, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductEndpoints_Validation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/products", []byte(`{"stock_name": ""}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/products", []byte(`{"stock_name": "x", "min_stock_level": -1}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/products/999/history",
		[]byte(`[{"date": "2024-01-01", "daily_sales": 1, "stock_quantity": 1}]`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
