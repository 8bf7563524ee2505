package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bip-connector/internal/api/dto"
	"bip-connector/internal/bip"
)

func TestConnectionCreateAndGet(t *testing.T) {
	st := newTestStore(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/connections",
		strings.NewReader(`{"name":"prod","baseUrl":"https://bi.example.com","username":"scott","password":"tiger"}`))
	NewConnectionCreateHandler(st)(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var view dto.ConnectionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotEmpty(t, view.ID)
	assert.NotContains(t, w.Body.String(), "tiger", "password must not leave the bridge")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/connections/"+view.ID, nil)
	req.SetPathValue("id", view.ID)
	NewConnectionGetHandler(st)(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"prod"`)
}

func TestConnectionCreateValidation(t *testing.T) {
	st := newTestStore(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/connections", strings.NewReader(`{"name":"x"}`))
	NewConnectionCreateHandler(st)(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CONNECTION_BASE_URL_REQUIRED")
}

func TestConnectionUpdateKeepsPasswordWhenBlank(t *testing.T) {
	st := newTestStore(t)
	created, err := st.CreateConnection(context.Background(), bip.Connection{
		Name: "prod", BaseURL: "https://bi.example.com", Password: "tiger",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/connections/"+created.ID,
		strings.NewReader(`{"name":"prod2","baseUrl":"https://bi.example.com"}`))
	req.SetPathValue("id", created.ID)
	NewConnectionUpdateHandler(st)(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := st.GetConnection(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "tiger", got.Password)
	assert.Equal(t, "prod2", got.Name)
}

func TestConnectionDeleteMissing(t *testing.T) {
	st := newTestStore(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/connections/none", nil)
	req.SetPathValue("id", "none")
	NewConnectionDeleteHandler(st)(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestConnectionTestHandler(t *testing.T) {
	st := newTestStore(t)
	created, err := st.CreateConnection(context.Background(), bip.Connection{Name: "prod", BaseURL: "https://bi.example.com"})
	require.NoError(t, err)

	var gotSQL string
	exec := stubExecutor{fn: func(ctx context.Context, conn bip.Connection, sqlText string, rowLimit int) (*bip.QueryResult, error) {
		gotSQL = sqlText
		return &bip.QueryResult{DurationMs: 3}, nil
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/connections/"+created.ID+"/test", nil)
	req.SetPathValue("id", created.ID)
	NewConnectionTestHandler(testConfig(), st, exec)(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SELECT 1 FROM dual", gotSQL)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
