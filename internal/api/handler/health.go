package handler

import (
	"net/http"

	"github.com/mcoot/roulettegame/internal/api/response"
)

// Health handles GET /api/health
func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
