package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAirportsRespectsQuery(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/airports?q=jakarta", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewReferenceHandler()

	require.NoError(t, h.ListAirports(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    []struct {
			Code string `json:"code"`
			City string `json:"city"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "CGK", body.Data[0].Code)
}

func TestListAirlinesReturnsFullListWithoutQuery(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/airlines", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewReferenceHandler()

	require.NoError(t, h.ListAirlines(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    []struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Data)
}
