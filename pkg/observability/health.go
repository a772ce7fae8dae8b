package observability

import (
	"encoding/json"
	"net/http"
)

const healthStatusOK = "ok"

type healthBody struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// HealthHandler returns an [http.Handler] for liveness checks at /healthz.
// It always answers 200 with {"status":"ok","version":...}.
func HealthHandler(version string) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(http.StatusOK)

		encodeErr := json.NewEncoder(rw).Encode(healthBody{Status: healthStatusOK, Version: version})
		if encodeErr != nil {
			return
		}
	})
}
