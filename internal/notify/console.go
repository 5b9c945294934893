package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
)

// ConsoleSink prints notifications to a terminal.
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink creates a ConsoleSink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Send(_ context.Context, n model.Notification) error {
	title := color.New(color.FgYellow, color.Bold).Sprint(n.Title)
	line := fmt.Sprintf("%s %s", title, n.Body)
	if n.Sound != "" {
		line += color.New(color.FgHiBlack).Sprintf(" [♪ %s]", n.Sound)
	}
	_, err := fmt.Fprintln(s.w, line)
	return err
}
