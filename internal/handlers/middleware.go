package handlers

import "net/http"

// RequireHeaderKey guards the data routes. With an empty key the service is
// open; otherwise every request must carry the same value in x-ncaa-key.
// Health and metrics are mounted outside the guarded group.
func RequireHeaderKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" && r.Header.Get("x-ncaa-key") != key {
				respondError(w, http.StatusUnauthorized, "missing or invalid x-ncaa-key", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
