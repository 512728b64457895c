package voice

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/luvv-ai/backend/internal/model/voice"
	"github.com/luvv-ai/backend/internal/service/provider"
	sessionservice "github.com/luvv-ai/backend/internal/service/session"
	"github.com/luvv-ai/backend/internal/service/transcribe"
	"github.com/luvv-ai/backend/pkg/utils"
)

// DialogueService abstracts the turn orchestrator so handlers can be tested
// against a stub.
type DialogueService interface {
	HandleTurn(ctx context.Context, sess *sessionservice.Session, userText string) (string, error)
	HandleVoiceTurn(ctx context.Context, sess *sessionservice.Session, audioPath string) (*voice.TurnResult, error)
}

// Handler owns the voice and text turn endpoints.
type Handler struct {
	dialogue DialogueService
	sessions *sessionservice.Store
	tempDir  string
}

// New creates the voice handler. tempDir receives uploaded clips; empty
// means the OS default.
func New(dialogue DialogueService, sessions *sessionservice.Store, tempDir string) *Handler {
	return &Handler{dialogue: dialogue, sessions: sessions, tempDir: tempDir}
}

// RegisterRoutes mounts the turn routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/voice/{sessionID}", h.handleVoiceTurn)
	r.Post("/chat/{sessionID}", h.handleTextTurn)
}

type turnResponse struct {
	SessionID  string    `json:"sessionId"`
	Transcript string    `json:"transcript,omitempty"`
	ReplyText  string    `json:"replyText"`
	Audio      []byte    `json:"audio,omitempty"`
	Format     string    `json:"format,omitempty"`
	AudioError string    `json:"audioError,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (h *Handler) handleVoiceTurn(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	clipPath, err := h.saveClip(file, header.Filename)
	if err != nil {
		log.Printf("[voice] failed to buffer upload: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to store audio clip")
		return
	}
	defer os.Remove(clipPath)

	result, err := h.dialogue.HandleVoiceTurn(r.Context(), sess, clipPath)
	if err != nil {
		respondTurnError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, turnResponse{
		SessionID:  result.SessionID,
		Transcript: result.Transcript,
		ReplyText:  result.ReplyText,
		Audio:      result.Audio,
		Format:     result.Format,
		AudioError: result.AudioError,
		CreatedAt:  result.CreatedAt,
	})
}

func (h *Handler) handleTextTurn(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.dialogue.HandleTurn(r.Context(), sess, payload.Message)
	if err != nil {
		respondTurnError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, turnResponse{
		SessionID: sess.ID,
		ReplyText: reply,
		CreatedAt: time.Now().UTC(),
	})
}

// saveClip copies the upload into a temp file whose extension survives, so
// the transcription engine can infer the container format.
func (h *Handler) saveClip(file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".wav"
	}

	tmp, err := os.CreateTemp(h.tempDir, "voice-*"+ext)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// respondTurnError maps orchestration failures onto HTTP statuses.
func respondTurnError(w http.ResponseWriter, err error) {
	if errors.Is(err, transcribe.ErrTranscription) {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var perr *provider.Error
	if errors.As(err, &perr) {
		switch perr.Kind {
		case provider.KindMissingCredential:
			utils.RespondError(w, http.StatusForbidden, "API keys not provided")
		case provider.KindInvalidCredential:
			utils.RespondError(w, http.StatusBadRequest, invalidKeyMessage(perr.Provider))
		case provider.KindUnavailable:
			utils.RespondError(w, http.StatusBadGateway, perr.Error())
		default:
			status := perr.Status
			if status < http.StatusBadRequest {
				status = http.StatusBadGateway
			}
			utils.RespondError(w, status, perr.Error())
		}
		return
	}

	utils.RespondError(w, http.StatusInternalServerError, err.Error())
}

func invalidKeyMessage(providerName string) string {
	switch providerName {
	case "elevenlabs":
		return "Sorry, invalid ElevenLabs API key."
	default:
		return "Sorry, invalid OpenAI API key."
	}
}
