package rest

import (
	"context"
	"net/http"

	core_port "listing-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string, allowedOrigins []string, annonceHandler *AnnonceHandler, baseLogger core_port.LoggerPort) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID", "X-User-Id", "X-User-Role", "X-Abonnement"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(RequesterMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/annonces", func(r chi.Router) {
			r.Get("/", annonceHandler.SearchAnnonces)
			r.Post("/", annonceHandler.CreateAnnonce)

			// Fixed segment before the {annonceID} wildcard.
			r.Get("/mes-annonces", annonceHandler.MyAnnonces)

			r.Get("/{annonceID}", annonceHandler.GetAnnonce)
			r.Put("/{annonceID}", annonceHandler.UpdateAnnonce)
			r.Delete("/{annonceID}", annonceHandler.DeleteAnnonce)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
