package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bip-connector/internal/api/dto"
	"bip-connector/internal/api/utils"
	"bip-connector/internal/bip"
	"bip-connector/internal/config"
	"bip-connector/internal/export"
	"bip-connector/internal/store"
)

func truncationNote(c bip.Capacity) string {
	return fmt.Sprintf(
		"statement exceeds the %d parameter slots (%d of %d encoded characters); the remainder was not sent",
		bip.MaxChunks, c.MaxLength, c.EncodedLength)
}

func runQuery(w http.ResponseWriter, r *http.Request, cfg config.Config, st *store.Store, exec Executor) (*bip.QueryResult, string, bool) {
	var req dto.QueryRequest
	if !decodeJSONBody(w, r, &req) {
		return nil, "", false
	}

	if strings.TrimSpace(req.SQL) == "" {
		utils.WriteError(w, http.StatusBadRequest, "SQL is required", "SQL_REQUIRED", nil)
		return nil, "", false
	}

	conn, ok := resolveConnection(r.Context(), w, st, req.ConnectionID, req.Connection)
	if !ok {
		return nil, "", false
	}

	rowLimit := normalizeRowLimit(req.RowLimit, cfg.RowLimitOrDefault())

	var note string
	if c := bip.CheckCapacity(req.SQL, rowLimit); c.Truncated {
		note = truncationNote(c)
	}

	ctx, cancel := context.WithTimeout(r.Context(), cfg.QueryTimeout())
	defer cancel()

	res, err := exec.Execute(ctx, conn, req.SQL, rowLimit)
	if err != nil {
		writeCallError(w, err)
		return nil, "", false
	}
	return res, note, true
}

func NewQueryHandler(cfg config.Config, st *store.Store, exec Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, note, ok := runQuery(w, r, cfg, st, exec)
		if !ok {
			return
		}
		utils.WriteJSON(w, http.StatusOK, dto.QueryResponse{
			Columns:     res.Columns,
			Rows:        res.Rows,
			RawXML:      res.RawXML,
			DurationMs:  res.DurationMs,
			RowCount:    len(res.Rows),
			WarningNote: note,
		})
	}
}

func NewQueryExportHandler(cfg config.Config, st *store.Store, exec Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, _, ok := runQuery(w, r, cfg, st, exec)
		if !ok {
			return
		}

		filename := fmt.Sprintf("query-%s.csv", time.Now().Format("20060102-150405"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		_ = export.WriteCSV(w, res)
	}
}

func NewCapacityHandler(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.CapacityRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}

		c := bip.CheckCapacity(req.SQL, normalizeRowLimit(req.RowLimit, cfg.RowLimitOrDefault()))
		utils.WriteJSON(w, http.StatusOK, dto.CapacityResponse{
			EncodedLength: c.EncodedLength,
			ChunkCount:    c.ChunkCount,
			MaxLength:     c.MaxLength,
			Truncated:     c.Truncated,
		})
	}
}
