package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	personaHandler "github.com/luvv-ai/backend/internal/handler/persona"
	sessionHandler "github.com/luvv-ai/backend/internal/handler/session"
	voiceHandler "github.com/luvv-ai/backend/internal/handler/voice"
	middlewarePkg "github.com/luvv-ai/backend/internal/middleware"
	personaModel "github.com/luvv-ai/backend/internal/model/persona"
	sessionService "github.com/luvv-ai/backend/internal/service/session"
	"github.com/luvv-ai/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas personaModel.Store, sessions *sessionService.Store, dialogue voiceHandler.DialogueService, tempDir string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	personaH := personaHandler.New(personas)
	sessionH := sessionHandler.New(sessions, personas)
	voiceH := voiceHandler.New(dialogue, sessions, tempDir)
	wsH := voiceHandler.NewWebSocketHandler(dialogue, sessions, tempDir)

	r.Route("/api", func(api chi.Router) {
		personaH.RegisterRoutes(api)
		sessionH.RegisterRoutes(api)
		voiceH.RegisterRoutes(api)
		wsH.RegisterWebSocketRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		})
	})

	return r
}
