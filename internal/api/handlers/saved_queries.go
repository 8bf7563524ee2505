package handlers

import (
	"errors"
	"net/http"
	"strings"

	"bip-connector/internal/api/dto"
	"bip-connector/internal/api/utils"
	"bip-connector/internal/store"
)

func NewSavedQueryListHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queries, err := st.ListSavedQueries(r.Context())
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Store access failed", "STORE_ERROR", nil)
			return
		}
		views := make([]dto.SavedQueryView, 0, len(queries))
		for _, q := range queries {
			views = append(views, dto.NewSavedQueryView(q))
		}
		utils.WriteJSON(w, http.StatusOK, views)
	}
}

func NewSavedQueryCreateHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload dto.SavedQueryPayload
		if !decodeJSONBody(w, r, &payload) {
			return
		}
		if !validateSavedQueryPayload(w, payload) {
			return
		}

		created, err := st.CreateSavedQuery(r.Context(), payload.ToModel())
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Store access failed", "STORE_ERROR", nil)
			return
		}
		utils.WriteJSON(w, http.StatusCreated, dto.NewSavedQueryView(created))
	}
}

func NewSavedQueryGetHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := st.GetSavedQuery(r.Context(), r.PathValue("id"))
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Saved query not found", "SAVED_QUERY_NOT_FOUND", nil)
			return
		}
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Store access failed", "STORE_ERROR", nil)
			return
		}
		utils.WriteJSON(w, http.StatusOK, dto.NewSavedQueryView(q))
	}
}

func NewSavedQueryUpdateHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload dto.SavedQueryPayload
		if !decodeJSONBody(w, r, &payload) {
			return
		}
		if !validateSavedQueryPayload(w, payload) {
			return
		}

		q := payload.ToModel()
		q.ID = r.PathValue("id")
		if err := st.UpdateSavedQuery(r.Context(), q); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.WriteError(w, http.StatusNotFound, "Saved query not found", "SAVED_QUERY_NOT_FOUND", nil)
				return
			}
			utils.WriteError(w, http.StatusInternalServerError, "Store access failed", "STORE_ERROR", nil)
			return
		}
		utils.WriteJSON(w, http.StatusOK, dto.NewSavedQueryView(q))
	}
}

func NewSavedQueryDeleteHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := st.DeleteSavedQuery(r.Context(), r.PathValue("id"))
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Saved query not found", "SAVED_QUERY_NOT_FOUND", nil)
			return
		}
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Store access failed", "STORE_ERROR", nil)
			return
		}
		utils.WriteNoContent(w)
	}
}

func validateSavedQueryPayload(w http.ResponseWriter, p dto.SavedQueryPayload) bool {
	if strings.TrimSpace(p.Name) == "" {
		utils.WriteError(w, http.StatusBadRequest, "Query name is required", "SAVED_QUERY_NAME_REQUIRED", nil)
		return false
	}
	if strings.TrimSpace(p.SQL) == "" {
		utils.WriteError(w, http.StatusBadRequest, "SQL is required", "SQL_REQUIRED", nil)
		return false
	}
	return true
}
