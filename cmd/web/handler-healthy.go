package main

import (
	"net/http"
)

// healthy reports that the server is up. It is used by the smoke test and the load balancer.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
