package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config aggregates the service configuration. Provider API keys are never
// configured here: they belong to sessions and are supplied by callers.
type Config struct {
	Server   ServerConfig
	Whisper  WhisperConfig
	Dialogue DialogueConfig
	Session  SessionConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// WhisperConfig locates the local transcription engine.
type WhisperConfig struct {
	Binary    string
	ModelPath string
	Language  string
}

// DialogueConfig tunes the turn orchestrator.
type DialogueConfig struct {
	HistoryWindow int
	CallTimeout   time.Duration
	TempDir       string
}

// SessionConfig bounds session lifetime.
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	whisper, err := loadWhisperConfig()
	if err != nil {
		return nil, err
	}

	dialogue, err := loadDialogueConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Whisper: whisper, Dialogue: dialogue, Session: session}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5001"
	}

	if strings.Contains(port, ":") {
		// Allow ":5001" or "127.0.0.1:5001" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

func loadWhisperConfig() (WhisperConfig, error) {
	modelPath := strings.TrimSpace(os.Getenv("WHISPER_MODEL"))
	if modelPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return WhisperConfig{}, fmt.Errorf("WHISPER_MODEL unset and home directory unavailable: %w", err)
		}
		modelPath = filepath.Join(home, ".cache", "whisper", "ggml-base.en.bin")
	}

	return WhisperConfig{
		Binary:    getEnvOrDefault("WHISPER_CLI", "whisper-cli"),
		ModelPath: modelPath,
		Language:  getEnvOrDefault("WHISPER_LANGUAGE", "en"),
	}, nil
}

func loadDialogueConfig() (DialogueConfig, error) {
	window := 16
	if override, err := parseOptionalIntEnv("HISTORY_WINDOW"); err != nil {
		return DialogueConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return DialogueConfig{}, fmt.Errorf("HISTORY_WINDOW must be at least 1")
		}
		window = *override
	}

	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("PROVIDER_TIMEOUT"); err != nil {
		return DialogueConfig{}, err
	} else if override != nil {
		timeoutSeconds = *override
	}

	return DialogueConfig{
		HistoryWindow: window,
		CallTimeout:   time.Duration(timeoutSeconds) * time.Second,
		TempDir:       strings.TrimSpace(os.Getenv("VOICE_TEMP_DIR")),
	}, nil
}

func loadSessionConfig() (SessionConfig, error) {
	ttlSeconds := 3600
	if override, err := parseOptionalIntEnv("SESSION_TTL"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		ttlSeconds = *override
	}

	sweepSeconds := 300
	if override, err := parseOptionalIntEnv("SESSION_SWEEP_INTERVAL"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		sweepSeconds = *override
	}

	return SessionConfig{
		TTL:           time.Duration(ttlSeconds) * time.Second,
		SweepInterval: time.Duration(sweepSeconds) * time.Second,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
