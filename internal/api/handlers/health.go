package handlers

import (
	"context"
	"net/http"
	"time"

	"bip-connector/internal/api/utils"
	"bip-connector/internal/store"
)

func NewHealthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			utils.WriteError(w, http.StatusServiceUnavailable, "Store unavailable", "STORE_UNAVAILABLE", nil)
			return
		}

		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
