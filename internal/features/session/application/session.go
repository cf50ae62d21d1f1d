package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	advisory "krishi-sahayak/backend/internal/features/advisory/domain"
	"krishi-sahayak/backend/internal/features/session/domain"
	"krishi-sahayak/backend/internal/logger"
)

// SpeechCapture turns one utterance into text.
type SpeechCapture interface {
	Available() bool
	Capture(ctx context.Context) (string, error)
}

// SpeechPlayback speaks text aloud. Failures are not surfaced to the user.
type SpeechPlayback interface {
	Speak(ctx context.Context, text string) error
}

// Advisor sends a transcript to the advisory endpoint.
type Advisor interface {
	Ask(ctx context.Context, query string) (*advisory.QueryResponse, error)
}

// Options tunes a Session. Zero timeouts disable the bound.
type Options struct {
	CaptureTimeout time.Duration
	RequestTimeout time.Duration
	// OnChange receives every state transition in order. It must not call
	// Start, Retry or Close synchronously.
	OnChange func(domain.Snapshot)
}

var errNoSpeech = errors.New("no speech detected")

// Session drives one listen, diagnose, speak interaction at a time. Starting a new
// run supersedes the previous one: late results from the old run are dropped.
type Session struct {
	capture  SpeechCapture
	playback SpeechPlayback
	advisor  Advisor
	opts     Options
	log      *logger.Logger

	mu     sync.Mutex
	snap   domain.Snapshot
	cancel context.CancelFunc
	done   chan struct{}
	closed bool

	// notifyMu keeps OnChange calls in transition order.
	notifyMu sync.Mutex
}

// NewSession creates an idle Session. capture may be nil when the platform has no
// speech capture; Start then fails with ErrCaptureUnavailable.
func NewSession(capture SpeechCapture, playback SpeechPlayback, advisor Advisor, opts Options, log *logger.Logger) *Session {
	done := make(chan struct{})
	close(done)
	return &Session{
		capture:  capture,
		playback: playback,
		advisor:  advisor,
		opts:     opts,
		log:      log,
		snap:     domain.Snapshot{State: domain.StateIdle},
		done:     done,
	}
}

// Start begins a new run in the Listening state. Any run in flight is cancelled
// and its outcome ignored.
func (s *Session) Start(ctx context.Context) error {
	if s.capture == nil || !s.capture.Available() {
		return domain.ErrCaptureUnavailable
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if s.cancel != nil {
		s.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	token := uuid.NewString()
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.snap = domain.Snapshot{Token: token, State: domain.StateListening}
	s.publishLocked()

	s.log.Debug("Voice session started", logrus.Fields{"token": token})
	go s.run(runCtx, token, done)
	return nil
}

// Retry discards the current run, clearing its transcript and result, and listens again.
func (s *Session) Retry(ctx context.Context) error {
	return s.Start(ctx)
}

// Close tears the session down from any state. A closed session cannot be restarted.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.snap = domain.Snapshot{Token: s.snap.Token, State: domain.StateClosed}
	s.publishLocked()
}

// Snapshot returns the current session view.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Wait blocks until the current run settles (Speaking, Error or superseded) and
// returns the session view at that point.
func (s *Session) Wait(ctx context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
		return s.Snapshot(), nil
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

func (s *Session) run(ctx context.Context, token string, done chan struct{}) {
	defer close(done)

	captureCtx, cancel := withTimeout(ctx, s.opts.CaptureTimeout)
	transcript, err := s.capture.Capture(captureCtx)
	cancel()
	if err == nil && strings.TrimSpace(transcript) == "" {
		err = errNoSpeech
	}
	if err != nil {
		s.fail(token, fmt.Errorf("%w: %w", domain.ErrCaptureFailed, err))
		return
	}

	if !s.transition(token, func(snap *domain.Snapshot) {
		snap.State = domain.StateThinking
		snap.Transcript = transcript
	}) {
		return
	}

	reqCtx, cancel := withTimeout(ctx, s.opts.RequestTimeout)
	resp, err := s.advisor.Ask(reqCtx, transcript)
	cancel()
	if err != nil {
		s.fail(token, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err))
		return
	}

	result := domain.NewResult(resp)
	if !s.transition(token, func(snap *domain.Snapshot) {
		snap.State = domain.StateSpeaking
		snap.Result = result
	}) {
		return
	}

	if s.playback != nil {
		go func() {
			if err := s.playback.Speak(ctx, result.SpokenText()); err != nil {
				s.log.Warn("Speech playback failed", logrus.Fields{"token": token, "error": err.Error()})
			}
		}()
	}
}

func (s *Session) fail(token string, err error) {
	if s.transition(token, func(snap *domain.Snapshot) {
		snap.State = domain.StateError
		snap.Err = err
	}) {
		s.log.Warn("Voice session failed", logrus.Fields{"token": token, "error": err.Error()})
	}
}

// transition applies update only if token still names the current, open run.
func (s *Session) transition(token string, update func(*domain.Snapshot)) bool {
	s.mu.Lock()
	if s.closed || s.snap.Token != token {
		s.mu.Unlock()
		s.log.Debug("Dropping stale session event", logrus.Fields{"token": token})
		return false
	}
	update(&s.snap)
	s.publishLocked()
	return true
}

// publishLocked releases s.mu and delivers the current snapshot to OnChange.
func (s *Session) publishLocked() {
	snap := s.snap
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	if s.opts.OnChange != nil {
		s.opts.OnChange(snap)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
