package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bip-connector/internal/api/dto"
	"bip-connector/internal/api/utils"
	"bip-connector/internal/bip"
	"bip-connector/internal/config"
	"bip-connector/internal/store"
)

const testStatement = "SELECT 1 FROM dual"

func NewConnectionListHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conns, err := st.ListConnections(r.Context())
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Store access failed", "STORE_ERROR", nil)
			return
		}
		views := make([]dto.ConnectionView, 0, len(conns))
		for _, c := range conns {
			views = append(views, dto.NewConnectionView(c))
		}
		utils.WriteJSON(w, http.StatusOK, views)
	}
}

func NewConnectionCreateHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload dto.ConnectionPayload
		if !decodeJSONBody(w, r, &payload) {
			return
		}
		if !validateConnectionPayload(w, payload) {
			return
		}

		created, err := st.CreateConnection(r.Context(), payload.ToModel())
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Store access failed", "STORE_ERROR", nil)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, dto.NewConnectionView(created))
	}
}

func NewConnectionGetHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, ok := loadConnection(r.Context(), w, st, r.PathValue("id"))
		if !ok {
			return
		}
		utils.WriteJSON(w, http.StatusOK, dto.NewConnectionView(conn))
	}
}

func NewConnectionUpdateHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload dto.ConnectionPayload
		if !decodeJSONBody(w, r, &payload) {
			return
		}
		if !validateConnectionPayload(w, payload) {
			return
		}

		conn := payload.ToModel()
		conn.ID = r.PathValue("id")
		// A blank password on update keeps the stored one; the view never
		// exposes it, so edit round trips would otherwise wipe it.
		if conn.Password == "" {
			existing, ok := loadConnection(r.Context(), w, st, conn.ID)
			if !ok {
				return
			}
			conn.Password = existing.Password
		}

		if err := st.UpdateConnection(r.Context(), conn); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.WriteError(w, http.StatusNotFound, "Connection not found", "CONNECTION_NOT_FOUND", nil)
				return
			}
			utils.WriteError(w, http.StatusInternalServerError, "Store access failed", "STORE_ERROR", nil)
			return
		}
		utils.WriteJSON(w, http.StatusOK, dto.NewConnectionView(conn))
	}
}

func NewConnectionDeleteHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := st.DeleteConnection(r.Context(), r.PathValue("id"))
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Connection not found", "CONNECTION_NOT_FOUND", nil)
			return
		}
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Store access failed", "STORE_ERROR", nil)
			return
		}
		utils.WriteNoContent(w)
	}
}

// NewConnectionTestHandler runs a trivial statement through the full
// adapter to prove the endpoint, credentials and proxy wiring work.
func NewConnectionTestHandler(cfg config.Config, st *store.Store, exec Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, ok := loadConnection(r.Context(), w, st, r.PathValue("id"))
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), cfg.QueryTimeout())
		defer cancel()

		res, err := exec.Execute(ctx, conn, testStatement, 1)
		if err != nil {
			writeCallError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]any{
			"status":     "ok",
			"durationMs": res.DurationMs,
		})
	}
}

func loadConnection(ctx context.Context, w http.ResponseWriter, st *store.Store, id string) (bip.Connection, bool) {
	c, err := st.GetConnection(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Connection not found", "CONNECTION_NOT_FOUND", nil)
		return c, false
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Store access failed", "STORE_ERROR", nil)
		return c, false
	}
	return c, true
}

func validateConnectionPayload(w http.ResponseWriter, p dto.ConnectionPayload) bool {
	if strings.TrimSpace(p.Name) == "" {
		utils.WriteError(w, http.StatusBadRequest, "Connection name is required", "CONNECTION_NAME_REQUIRED", nil)
		return false
	}
	if strings.TrimSpace(p.BaseURL) == "" {
		utils.WriteError(w, http.StatusBadRequest, "Connection baseUrl is required", "CONNECTION_BASE_URL_REQUIRED", nil)
		return false
	}
	return true
}
