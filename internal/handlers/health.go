// internal/handlers/health.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/quickfire-games/mathrush/internal/lobby"
)

// HealthHandler reports process liveness and the number of live lobbies.
func HealthHandler(coord *lobby.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "ok",
			"lobbies": coord.LobbyCount(),
		})
	}
}
