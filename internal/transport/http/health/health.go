package health

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/miniflavors/checkout/internal/config"
)

type response struct {
	OK  bool            `json:"ok"`
	Env map[string]bool `json:"env"`
}

// Health reports whether each required configuration variable is present.
// Presence only; values never leave the process.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response{OK: true, Env: config.RequiredEnv()}); err != nil {
		slog.Error("Error writing health response", "error", err)
	}
}
