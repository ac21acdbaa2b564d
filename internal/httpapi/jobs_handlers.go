package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"jobmatch-engine/internal/logger"
	"jobmatch-engine/internal/store"
)

type JobsHandler struct {
	DB *sql.DB
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	jobs, err := store.ListPostings(r.Context(), h.DB, store.ListPostingsOpts{
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
		Window: q.Get("window"),
		Limit:  limit,
	})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, codeCatalog, err.Error())
		return
	}
	writeJSON(w, jobsFrom(jobs, false))
}

// GetByPath expects /jobs/{id}.
func (h JobsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}
	p, found, err := store.GetPosting(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, codeCatalog, err.Error())
		return
	}
	if !found {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "job not found")
		return
	}
	writeJSON(w, jobFrom(p, true))
}

// DeleteByPath expects /jobs/{id}.
func (h JobsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}
	deleted, err := store.DeletePosting(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, codeCatalog, err.Error())
		return
	}
	if !deleted {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "job not found")
		return
	}

	logger.Ctx(r.Context()).Info().Int64("id", id).Msg("job deleted")
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

func jobID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, "/jobs/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
