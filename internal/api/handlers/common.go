package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"bip-connector/internal/api/dto"
	"bip-connector/internal/api/utils"
	"bip-connector/internal/bip"
	"bip-connector/internal/store"
)

const maxBodyBytes = 1 << 20

// Executor is the slice of bip.Client the handlers need.
type Executor interface {
	Execute(ctx context.Context, conn bip.Connection, sqlText string, rowLimit int) (*bip.QueryResult, error)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid JSON body", "INVALID_JSON", nil)
		return false
	}
	if err := ensureEOF(dec); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid JSON body", "INVALID_JSON", nil)
		return false
	}
	return true
}

func ensureEOF(dec *json.Decoder) error {
	var extra any
	if err := dec.Decode(&extra); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return errors.New("extra data")
}

// normalizeRowLimit coerces whatever the caller sent into a positive
// integer, falling back to the configured default for anything else.
func normalizeRowLimit(v any, fallback int) int {
	switch t := v.(type) {
	case float64:
		if t > 0 && math.Trunc(t) == t {
			return int(t)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil && n > 0 {
			return n
		}
	case int:
		if t > 0 {
			return t
		}
	}
	return fallback
}

func resolveConnection(ctx context.Context, w http.ResponseWriter, st *store.Store, id string, inline *dto.ConnectionPayload) (bip.Connection, bool) {
	if inline != nil {
		conn := inline.ToModel()
		if strings.TrimSpace(conn.BaseURL) == "" {
			utils.WriteError(w, http.StatusBadRequest, "Connection baseUrl is required", "CONNECTION_BASE_URL_REQUIRED", nil)
			return bip.Connection{}, false
		}
		return conn, true
	}

	if strings.TrimSpace(id) == "" {
		utils.WriteError(w, http.StatusBadRequest, "Provide connectionId or an inline connection", "CONNECTION_REQUIRED", nil)
		return bip.Connection{}, false
	}

	conn, err := st.GetConnection(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Connection not found", "CONNECTION_NOT_FOUND", nil)
		return bip.Connection{}, false
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Store access failed", "STORE_ERROR", nil)
		return bip.Connection{}, false
	}
	return conn, true
}

func writeCallError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		utils.WriteError(w, http.StatusGatewayTimeout, "Query timeout", "QUERY_TIMEOUT", nil)
		return
	}

	var ce *bip.CallError
	if !errors.As(err, &ce) {
		utils.WriteError(w, http.StatusInternalServerError, "Query execution failed", "QUERY_ERROR", nil)
		return
	}

	switch {
	case errors.Is(err, bip.ErrServerFault):
		utils.WriteError(w, http.StatusBadGateway, ce.Message, "SERVER_FAULT", nil)
	case errors.Is(err, bip.ErrHTTP):
		utils.WriteError(w, http.StatusBadGateway, ce.Message, "UPSTREAM_HTTP_ERROR", map[string]any{"upstreamStatus": ce.Status})
	case errors.Is(err, bip.ErrNetwork):
		utils.WriteError(w, http.StatusBadGateway, ce.Message, "NETWORK_ERROR", nil)
	case errors.Is(err, bip.ErrEmptyPayload):
		utils.WriteError(w, http.StatusBadGateway, ce.Message, "EMPTY_PAYLOAD", nil)
	case errors.Is(err, bip.ErrMalformedResponse):
		utils.WriteError(w, http.StatusBadGateway, ce.Message, "MALFORMED_RESPONSE", nil)
	case errors.Is(err, bip.ErrMalformedReport):
		utils.WriteError(w, http.StatusBadGateway, ce.Message, "MALFORMED_REPORT_XML", nil)
	default:
		utils.WriteError(w, http.StatusInternalServerError, ce.Message, "QUERY_ERROR", nil)
	}
}
