package httpapi

import (
	"database/sql"
	"net/http"
)

type DBHandler struct {
	DB *sql.DB
}

// Checkpoint flushes the sqlite WAL. Only loopback callers may use it.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if !fromLoopback(r) {
		WriteError(w, r, http.StatusForbidden, codeForbidden, "checkpoint is only available from localhost")
		return
	}

	var busy, logFrames, checkpointed int
	if err := h.DB.QueryRowContext(r.Context(), `PRAGMA wal_checkpoint(FULL);`).Scan(&busy, &logFrames, &checkpointed); err != nil {
		WriteError(w, r, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}
	writeJSON(w, map[string]int{"busy": busy, "log": logFrames, "checkpointed": checkpointed})
}
