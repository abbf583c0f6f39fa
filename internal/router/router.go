package router

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	mw "github.com/paharnama-dev/paharnama/internal/middleware"
	"github.com/paharnama-dev/paharnama/internal/middleware/metrics"
	rl "github.com/paharnama-dev/paharnama/internal/middleware/ratelimiter"
	"github.com/paharnama-dev/paharnama/internal/setup"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New creates and configures a new mux router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that subrouter
func New(deps *setup.Dependencies) *mux.Router {
	r := mux.NewRouter()

	// Enable gzip compression for all responses
	r.Use(handlers.CompressHandler)

	// setup CORS for frontend
	r.Use(handlers.CORS(
		handlers.AllowedOrigins(deps.Config.Public.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	))

	r.Use(mw.SecurityHeaders(false))
	r.Use(metrics.Middleware)

	// Add a wildcard OPTIONS handler to avoid 404s for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := deps.Handler
	jwt := deps.Jwt

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/ready", h.Ready).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Auth routes. Limits are per identity: IP for anonymous endpoints,
	// target email for the ones that send mail, user id once signed in.
	auth := v1.PathPrefix("/auth").Subrouter()

	register := auth.NewRoute().Subrouter()
	register.Use(mw.RateLimit(rl.PerMinute(5), mw.GetIP))
	register.Use(mw.RateLimit(rl.PerMinute(5), mw.GetEmailFromBody))
	register.HandleFunc("/register", h.Register).Methods("POST")

	login := auth.NewRoute().Subrouter()
	login.Use(mw.RateLimit(rl.PerMinute(5), mw.GetIP))
	login.HandleFunc("/login", h.Login).Methods("POST")

	verify := auth.NewRoute().Subrouter()
	verify.Use(mw.RateLimit(rl.PerMinute(10), mw.GetIP))
	verify.HandleFunc("/verify-email", h.VerifyEmail).Methods("POST")

	resend := auth.NewRoute().Subrouter()
	resend.Use(mw.RateLimit(rl.PerMinute(3), mw.GetIP))
	resend.Use(mw.RateLimit(rl.PerMinute(3), mw.GetEmailFromBody))
	resend.HandleFunc("/resend-verification", h.ResendVerification).Methods("POST")

	refresh := auth.NewRoute().Subrouter()
	refresh.Use(mw.RateLimit(rl.PerMinute(10), mw.GetIP))
	refresh.HandleFunc("/refresh", h.Refresh).Methods("POST")

	auth.HandleFunc("/logout", mw.NeedAuth(jwt)(h.Logout)).Methods("POST")
	auth.HandleFunc("/profile", mw.NeedAuth(jwt)(h.Profile)).Methods("GET")
	// Auth first: the limiter keys on the user id from the claims.
	changePassword := mw.RateLimit(rl.PerMinute(3), mw.GetUserIDFromContext)(http.HandlerFunc(h.ChangePassword))
	auth.HandleFunc("/change-password", mw.NeedAuth(jwt)(changePassword.ServeHTTP)).Methods("POST")

	// Mountain catalog: public reads, admin writes.
	v1.HandleFunc("/mountains", h.GetMountains).Methods("GET")
	v1.HandleFunc("/mountains/{id}", h.GetMountain).Methods("GET")
	v1.HandleFunc("/mountains", mw.AdminOnly(jwt)(h.CreateMountain)).Methods("POST")
	v1.HandleFunc("/mountains/{id}", mw.AdminOnly(jwt)(h.UpdateMountain)).Methods("PATCH")
	v1.HandleFunc("/mountains/{id}", mw.AdminOnly(jwt)(h.DeleteMountain)).Methods("DELETE")

	// Admin routes
	admin := v1.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/users", mw.AdminOnly(jwt)(h.GetUsers)).Methods("GET")
	admin.HandleFunc("/users/{id}", mw.AdminOnly(jwt)(h.GetUser)).Methods("GET")
	admin.HandleFunc("/users/{id}", mw.AdminOnly(jwt)(h.UpdateUser)).Methods("PATCH")

	return r
}
