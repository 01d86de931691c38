package json

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// The status line and headers are already on the wire; nothing about
		// the response can be corrected here, only recorded.
		slog.Error("failed to encode response body", "error", err)
	}
}
