package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter registers the signup endpoint, the health check and the API docs.
// The signup route is a catch-all so that wrong methods and paths reach the
// request validator and get its 404 reason instead of the mux's plain-text one.
// guard wraps the signup handler (for the optional bearer check); nil means none.
func NewRouter(signup *SignupController, guard func(http.HandlerFunc) http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	handler := signup.Signup
	if guard != nil {
		handler = guard(handler)
	}
	mux.HandleFunc("/", handler)

	mux.HandleFunc("GET /healthz", Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
