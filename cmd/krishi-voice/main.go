package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"krishi-sahayak/backend/internal/config"
	"krishi-sahayak/backend/internal/features/session/application"
	"krishi-sahayak/backend/internal/features/session/domain"
	"krishi-sahayak/backend/internal/features/session/infrastructure"
	"krishi-sahayak/backend/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run drives one voice session and returns the process exit code.
func run(args []string) int {
	_ = config.LoadEnv()

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load settings:", err)
		return 1
	}

	fs := flag.NewFlagSet("krishi-voice", flag.ContinueOnError)
	serverURL := fs.String("server", settings.Client.ServerURL, "advisory server base URL")
	query := fs.String("query", "", "typed utterance (skips speech recognition)")
	audioPath := fs.String("audio", "", "recorded utterance to transcribe with Whisper")
	speakOut := fs.String("speak-out", "", "write the spoken answer to this mp3 file")
	language := fs.String("language", settings.Client.Language, "speech recognition language")
	timeout := fs.Duration("timeout", settings.Client.RequestTimeout, "advisory request timeout")
	verbose := fs.BoolP("verbose", "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	level := settings.Log.Level
	if *verbose {
		level = "debug"
	}
	log := logger.NewLogger(level, false)

	speechCfg := infrastructure.SpeechConfig{
		APIKey:   settings.OpenAI.APIKey,
		STTModel: settings.OpenAI.STTModel,
		TTSModel: settings.OpenAI.TTSModel,
		Voice:    settings.OpenAI.Voice,
		Language: *language,
	}

	var capture application.SpeechCapture
	var playback application.SpeechPlayback = infrastructure.ConsolePlayback{W: os.Stdout}

	switch {
	case *query != "":
		capture = infrastructure.TextCapture{Text: *query}
	case *audioPath != "":
		client, err := infrastructure.NewOpenAIClient(speechCfg)
		if err != nil {
			log.Warn("Speech recognition disabled", logrus.Fields{"error": err.Error()})
			break
		}
		capture = infrastructure.NewWhisperCapture(client, *audioPath, speechCfg)
	}

	if *speakOut != "" {
		client, err := infrastructure.NewOpenAIClient(speechCfg)
		if err != nil {
			log.Warn("Speech synthesis disabled, printing instead", logrus.Fields{"error": err.Error()})
		} else {
			playback = infrastructure.NewOpenAIPlayback(client, *speakOut, speechCfg)
		}
	}

	spoken := &trackedPlayback{SpeechPlayback: playback, done: make(chan struct{})}
	advisor := infrastructure.NewAdvisoryClient(*serverURL, *timeout, log)
	session := application.NewSession(capture, spoken, advisor, application.Options{
		CaptureTimeout: settings.Client.CaptureTimeout,
		RequestTimeout: *timeout,
		OnChange:       printStatus,
	}, log)
	defer session.Close()

	ctx := context.Background()
	if err := session.Start(ctx); err != nil {
		if errors.Is(err, domain.ErrCaptureUnavailable) {
			fmt.Fprintln(os.Stderr, "आपका डिवाइस वॉइस रिकॉग्निशन को सपोर्ट नहीं करता (use --query or --audio)")
		} else {
			fmt.Fprintln(os.Stderr, "failed to start session:", err)
		}
		return 1
	}

	snap, err := session.Wait(ctx)
	if err != nil || snap.State != domain.StateSpeaking {
		return 1
	}
	printResult(snap.Result)

	select {
	case <-spoken.done:
	case <-time.After(*timeout):
		log.Warn("Speech playback did not finish in time")
	}
	return 0
}

// trackedPlayback lets main wait for the single fire-and-forget playback of a run.
type trackedPlayback struct {
	application.SpeechPlayback
	done chan struct{}
}

func (p *trackedPlayback) Speak(ctx context.Context, text string) error {
	defer close(p.done)
	return p.SpeechPlayback.Speak(ctx, text)
}

func printStatus(snap domain.Snapshot) {
	switch snap.State {
	case domain.StateListening:
		fmt.Println("सुन रहा हूं... बोलिए")
	case domain.StateThinking:
		fmt.Printf("आपने कहा: %q\n", snap.Transcript)
		fmt.Println("सोच रहा हूं...")
	case domain.StateError:
		fmt.Println("कुछ गलत हुआ। कृपया दोबारा कोशिश करें।")
		if snap.Err != nil {
			fmt.Fprintln(os.Stderr, snap.Err)
		}
	}
}

func printResult(r *domain.Result) {
	fmt.Println("समस्या:", r.Diagnosis)
	fmt.Println("समाधान:", r.Solution)
	if r.Quotes == nil {
		return
	}
	fmt.Printf("%s - कीमत तुलना:\n", r.Product)
	for _, q := range r.Quotes {
		marker := ""
		if q.Cheapest {
			marker = " (सबसे सस्ता)"
		}
		fmt.Printf("  %-10s ₹%d  ⭐%.1f  %s%s\n", q.Platform, q.Price, q.Rating, q.Delivery, marker)
	}
}
