package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"readingquest/internal/security"
)

// Routes bundles everything the router needs
type Routes struct {
	Auth        *AuthHandler
	Games       *GameHandler
	Play        *PlayHandler
	Middleware  *Middleware
	LoginLimit  *security.RateLimiter
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter wires the JSON API
func NewRouter(rt Routes) http.Handler {
	mux := chi.NewRouter()

	mux.Use(Logging(rt.Logger))
	mux.Use(corsHandler(rt.CORSOrigins))
	mux.Use(rt.Middleware.Identify)
	mux.Use(rt.Middleware.CSRFProtect)

	mux.Route("/auth/{provider}", func(r chi.Router) {
		r.Get("/start", rt.Auth.StartOAuth)
		r.Get("/callback", rt.Auth.OAuthCallback)
	})

	mux.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", rt.Auth.Register)
			r.With(rt.Middleware.RateLimit(rt.LoginLimit)).Post("/login", rt.Auth.Login)
			r.Post("/logout", rt.Auth.Logout)
			r.Get("/me", rt.Auth.Me)
		})

		r.Route("/games/{gameType}", func(r chi.Router) {
			r.Get("/", rt.Games.GetGame)
			r.Get("/leaderboard", rt.Games.Leaderboard)
		})

		r.Group(func(r chi.Router) {
			r.Use(rt.Middleware.PlayCookie)

			r.Route("/adventure", func(r chi.Router) {
				r.Get("/", rt.Play.AdventureState)
				r.Post("/start", rt.Play.AdventureStart)
				r.Post("/choose", rt.Play.AdventureChoose)
				r.Post("/restart", rt.Play.AdventureRestart)

				r.Group(func(r chi.Router) {
					r.Use(rt.Middleware.RequireUser)
					r.Post("/save", rt.Play.AdventureSave)
					r.Post("/continue", rt.Play.AdventureContinue)
					r.Post("/discard", rt.Play.AdventureDiscard)
					r.Post("/finish", rt.Play.AdventureFinish)
				})
			})

			r.Route("/sentence", func(r chi.Router) {
				r.Get("/", rt.Play.SentenceState)
				r.Post("/select", rt.Play.SentenceSelect)
				r.Post("/remove", rt.Play.SentenceRemove)
				r.Post("/check", rt.Play.SentenceCheck)
				r.Post("/reset", rt.Play.SentenceReset)
				r.Post("/restart", rt.Play.SentenceRestart)
				r.Post("/name", rt.Play.SentenceName)

				r.Group(func(r chi.Router) {
					r.Use(rt.Middleware.RequireUser)
					r.Post("/save", rt.Play.SentenceSave)
					r.Post("/continue", rt.Play.SentenceContinue)
					r.Post("/discard", rt.Play.SentenceDiscard)
					r.Post("/finish", rt.Play.SentenceFinish)
				})
			})
		})
	})

	return mux
}

// corsHandler allows any origin when none are configured
func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return cors.AllowAll().Handler
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", CSRFHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
