package dialogue

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/luvv-ai/backend/internal/model/conversation"
	"github.com/luvv-ai/backend/internal/model/persona"
	"github.com/luvv-ai/backend/internal/model/voice"
	"github.com/luvv-ai/backend/internal/service/provider"
	"github.com/luvv-ai/backend/internal/service/session"
	"github.com/luvv-ai/backend/internal/service/transcribe"
)

const defaultCallTimeout = 30 * time.Second

// Config tunes the orchestrator.
type Config struct {
	// Window is the number of recent turns fed to the prompt builder.
	Window int
	// CallTimeout bounds each outbound provider call.
	CallTimeout time.Duration
}

// Service coordinates one dialogue turn end to end: prompt assembly, the
// generation call, reply sanitation, history bookkeeping and synthesis.
type Service struct {
	personas    persona.Store
	generator   provider.GenerationClient
	speech      provider.SpeechClient
	transcriber transcribe.Transcriber
	tracker     TraitTracker
	window      int
	callTimeout time.Duration
}

// NewService wires the orchestrator with its collaborators.
func NewService(personas persona.Store, generator provider.GenerationClient, speech provider.SpeechClient, transcriber transcribe.Transcriber, cfg Config) *Service {
	window := cfg.Window
	if window <= 0 {
		window = HistoryWindow
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	return &Service{
		personas:    personas,
		generator:   generator,
		speech:      speech,
		transcriber: transcriber,
		tracker:     NewKeywordTracker(),
		window:      window,
		callTimeout: timeout,
	}
}

// HandleTurn runs one text exchange for the session. Turns within a session
// are strictly serialized: the per-session lock is held for the whole call.
// On generation failure the user turn stays recorded and no persona turn is
// appended.
func (s *Service) HandleTurn(ctx context.Context, sess *session.Session, userText string) (string, error) {
	p, ok := s.personas.FindByID(sess.PersonaID)
	if !ok {
		return "", fmt.Errorf("persona %q not found", sess.PersonaID)
	}

	sess.Lock()
	defer sess.Unlock()

	creds := sess.Credentials()
	if strings.TrimSpace(creds.GenerationKey) == "" {
		return "", provider.MissingCredential("openai")
	}

	sess.History().Append(conversation.RoleUser, userText)

	prompt := BuildPrompt(p, sess.History().Window(s.window), sess.Disclosed().List(), userText)

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	raw, err := s.generator.Complete(callCtx, provider.GenerationRequest{
		Prompt:      prompt,
		Credential:  creds.GenerationKey,
		Model:       p.GenerationModel,
		Temperature: p.Temperature,
	})
	if err != nil {
		return "", err
	}

	reply := sanitizeReply(raw, p.Name)
	sess.History().Append(conversation.RolePersona, reply)
	s.tracker.Record(p, reply, sess.Disclosed())

	log.Printf("[dialogue] session=%s turn complete, history=%d disclosed=%d", sess.ID, sess.History().Len(), sess.Disclosed().Len())
	return reply, nil
}

// Synthesize converts reply text to speech with the session's speech key and
// the persona's voice parameters.
func (s *Service) Synthesize(ctx context.Context, sess *session.Session, text string) ([]byte, error) {
	p, ok := s.personas.FindByID(sess.PersonaID)
	if !ok {
		return nil, fmt.Errorf("persona %q not found", sess.PersonaID)
	}

	creds := sess.Credentials()
	if strings.TrimSpace(creds.SpeechKey) == "" {
		return nil, provider.MissingCredential("elevenlabs")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	return s.speech.Synthesize(callCtx, provider.SynthesisRequest{
		Text:       text,
		Credential: creds.SpeechKey,
		Voice:      p.Voice,
	})
}

// HandleVoiceTurn is the end-to-end entry point: transcription, text turn,
// synthesis. Transcription failure aborts before any history mutation. A
// synthesis failure is a partial success: the reply text is still returned
// with the failure noted on the result.
func (s *Service) HandleVoiceTurn(ctx context.Context, sess *session.Session, audioPath string) (*voice.TurnResult, error) {
	userText, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	reply, err := s.HandleTurn(ctx, sess, userText)
	if err != nil {
		return nil, err
	}

	result := &voice.TurnResult{
		SessionID:  sess.ID,
		Transcript: userText,
		ReplyText:  reply,
		CreatedAt:  time.Now().UTC(),
	}

	audio, err := s.Synthesize(ctx, sess, reply)
	if err != nil {
		log.Printf("[dialogue] synthesis failed for session=%s: %v", sess.ID, err)
		result.AudioError = err.Error()
		return result, nil
	}

	result.Audio = audio
	result.Format = "mp3"
	return result, nil
}
