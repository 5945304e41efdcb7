package handlers

import (
	"net/http"
	"time"

	applog "larder/internal/log"
)

type healthResponse struct {
	Status  string    `json:"status"`
	Catalog string    `json:"catalog"`
	Time    time.Time `json:"time"`
}

// Health is a simple readiness handler suitable for infrastructure probes.
// It reports catalog gateway reachability without failing the probe on it.
func Health(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "health check requested", "method", r.Method)

	catalogStatus := "unconfigured"
	if catalogClient != nil {
		catalogStatus = "unreachable"
		if catalogClient.Healthy(r.Context()) {
			catalogStatus = "ok"
		}
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Catalog: catalogStatus,
		Time:    time.Now().UTC(),
	})
}
