package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stashview/internal/apperr"
	"stashview/internal/index"
	"stashview/internal/models"
	"stashview/internal/stashservice"
)

// Handler holds API route handlers.
type Handler struct {
	db  index.StashIndex
	svc *stashservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(db index.StashIndex, svc *stashservice.Service) *Handler {
	return &Handler{db: db, svc: svc}
}

// ListStashes handles GET /api/stashes.
func (h *Handler) ListStashes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	kind := q.Get("kind")
	owner := q.Get("owner")
	item := q.Get("item")

	if kind != "" && kind != models.KindBackpack && kind != models.KindContainer {
		writeJSON(w, http.StatusBadRequest, errorBody("kind must be backpack or container"))
		return
	}

	rows, total, err := h.db.ListStashes(kind, owner, item, limit, offset)
	if err != nil {
		slog.Error("list stashes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	items := make([]StashListItem, len(rows))
	for i, row := range rows {
		items[i] = listItem(row)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stashes": items,
		"total":   total,
	})
}

// GetStash handles GET /api/stashes/{key}.
func (h *Handler) GetStash(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	row, err := h.db.GetStash(key)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get stash failed", slog.String("key", key), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, StashDetail{
		StashListItem: listItem(*row),
		Record:        json.RawMessage(row.Record),
	})
}

// GetStashImage handles GET /api/stashes/{key}/image and responds with
// the rendered grid PNG.
func (h *Handler) GetStashImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	row, err := h.db.GetStash(key)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get stash failed", slog.String("key", key), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	var png []byte
	switch row.Kind {
	case models.KindBackpack:
		var rec models.BackpackRecord
		if err = json.Unmarshal([]byte(row.Record), &rec); err == nil {
			png, err = h.svc.RenderBackpack(rec)
		}
	case models.KindContainer:
		var rec models.ContainerRecord
		if err = json.Unmarshal([]byte(row.Record), &rec); err == nil {
			png, err = h.svc.RenderContainer(rec)
		}
	default:
		err = apperr.ErrUnknownMode
	}
	if err != nil {
		slog.Error("render stash failed", slog.String("key", key), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.db.Search(q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	hits := make([]SearchHit, len(results))
	for i, res := range results {
		hits[i] = SearchHit{Key: res.Key, Kind: res.Kind, Owner: res.Owner, Snippet: res.Snippet}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": hits,
	})
}
