package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

// The collection routes answer failures as {"error": ...}, the per-id
// routes as {"message": ...}. Both shapes predate this server; the
// dashboard client expects them.
func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]string{"error": msg})
}

func respondMessage(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]string{"message": msg})
}
