package infrastructure

import (
	"context"
	"fmt"
	"io"
)

// TextCapture stands in for a microphone with an already-typed utterance.
type TextCapture struct {
	Text string
}

func (t TextCapture) Available() bool { return t.Text != "" }

func (t TextCapture) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return t.Text, nil
}

// ConsolePlayback prints the text that would have been spoken.
type ConsolePlayback struct {
	W io.Writer
}

func (p ConsolePlayback) Speak(_ context.Context, text string) error {
	_, err := fmt.Fprintf(p.W, "🔊 %s\n", text)
	return err
}
