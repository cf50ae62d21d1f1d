package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// SpeechConfig holds the OpenAI speech settings.
type SpeechConfig struct {
	APIKey   string
	BaseURL  string // Optional; overrides the public API endpoint
	STTModel string
	TTSModel string
	Voice    string
	Language string // ISO-639-1, e.g. "hi"
}

// NewOpenAIClient creates an OpenAI client, requires an API key.
func NewOpenAIClient(cfg SpeechConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig), nil
}

// WhisperCapture transcribes a recorded utterance with the OpenAI transcription API.
type WhisperCapture struct {
	client    *openai.Client
	audioPath string
	model     string
	language  string
}

func NewWhisperCapture(client *openai.Client, audioPath string, cfg SpeechConfig) *WhisperCapture {
	model := cfg.STTModel
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperCapture{
		client:    client,
		audioPath: audioPath,
		model:     model,
		language:  cfg.Language,
	}
}

// Available reports whether there is a recording to transcribe.
func (w *WhisperCapture) Available() bool {
	if w.client == nil || w.audioPath == "" {
		return false
	}
	info, err := os.Stat(w.audioPath)
	return err == nil && !info.IsDir()
}

func (w *WhisperCapture) Capture(ctx context.Context) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: w.audioPath,
		Language: w.language,
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe %s: %w", w.audioPath, err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// OpenAIPlayback synthesizes speech with the OpenAI speech API and writes it as mp3.
type OpenAIPlayback struct {
	client  *openai.Client
	model   openai.SpeechModel
	voice   openai.SpeechVoice
	outPath string
}

func NewOpenAIPlayback(client *openai.Client, outPath string, cfg SpeechConfig) *OpenAIPlayback {
	model := openai.SpeechModel(cfg.TTSModel)
	if model == "" {
		model = openai.TTSModel1
	}
	voice := openai.SpeechVoice(cfg.Voice)
	if voice == "" {
		voice = openai.VoiceAlloy
	}
	return &OpenAIPlayback{
		client:  client,
		model:   model,
		voice:   voice,
		outPath: outPath,
	}
}

func (p *OpenAIPlayback) Speak(ctx context.Context, text string) error {
	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          p.model,
		Input:          text,
		Voice:          p.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Close()

	f, err := os.Create(p.outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", p.outPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.outPath, err)
	}
	return nil
}
