package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON пишет payload как JSON с заданным статусом.
func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write JSON response", "error", err, "status", status)
	}
}
