package middleware

import "net/http"

// Serialize admits one request at a time. It is installed when the server
// runs without --threaded.
func Serialize(next http.Handler) http.Handler {
	gate := make(chan struct{}, 1)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case gate <- struct{}{}:
		case <-r.Context().Done():
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}
		defer func() { <-gate }()
		next.ServeHTTP(w, r)
	})
}
