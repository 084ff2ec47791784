package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/gitpoke/pkg/usecase"
	"github.com/secmon-lab/gitpoke/pkg/utils/logging"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	authUC AuthUseCase
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.authUC == nil {
		s.authUC = uc.Auth
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler())

	// Badge endpoint is public and cacheable; no auth middleware here
	r.Get("/badge/{username}.svg", badgeHandler(s.uc))

	r.Route("/api", func(r chi.Router) {
		r.Use(corsGitHub)

		if s.authUC != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Get("/login", authLoginHandler(s.authUC))
				r.Get("/callback", authCallbackHandler(s.authUC, s.uc))
				r.Post("/logout", authLogoutHandler(s.authUC))
			})
		}

		// Interactive badges POST here cross-origin, so the preflight
		// must answer before authentication runs
		r.Options("/poke", preflightHandler)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(s.authUC))

			r.Post("/poke", pokeHandler(s.uc))

			r.Route("/user", func(r chi.Router) {
				r.Get("/me", userMeHandler(s.uc))
				r.Put("/settings", userSettingsHandler(s.uc))
				r.Delete("/me", userDeleteHandler(s.authUC, s.uc))
				r.Get("/pokes", userPokesHandler(s.uc))
			})
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
