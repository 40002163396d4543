package errors

import (
	"net/http"
)

// RecoveryMiddleware recovers panics in the handler chain and responds with
// an RFC 7807 problem instead of a blank 500. Mounted early in the router so
// every route below it is covered.
func RecoveryMiddleware(handler *ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					handler.HandlePanic(w, r, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
