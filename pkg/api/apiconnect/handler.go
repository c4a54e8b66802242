package apiconnect

import (
	"net/http"

	"connectrpc.com/connect"
)

// serviceHandler routes each procedure of a service to its handler and
// returns the service's mount path.
func serviceHandler(serviceName string, procedures map[string]http.Handler) (string, http.Handler) {
	return "/" + serviceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := procedures[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// The JSON codec goes first so callers can still override it.
func withJSONHandler(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSON()}, opts...)
}

func withJSONClient(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{WithJSON()}, opts...)
}
