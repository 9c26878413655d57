package observability

import (
	"net/http"
)

func HealthLiveHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func HealthReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Everything is in-memory; ready as soon as the process serves HTTP.
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
