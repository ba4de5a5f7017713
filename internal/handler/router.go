package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/registro/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter собирает маршруты формы регистрации.
func NewRouter(h *RegistrationHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", h.Form)
	r.Get(FormPath, h.Form)
	r.Get(WelcomePath, h.Welcome)
	r.Post(SubmitPath, h.Register)
	r.Get(SubmitPath, h.RegisterNotAllowed)
	r.Get("/health", h.Health)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	return r
}
