package httpx

import "net/http"

// healthHandler reports process liveness. It deliberately checks nothing
// downstream; the gateway is useful even when a backend is flapping.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
