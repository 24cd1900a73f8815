package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/mhdinshadk/Chat-Bot/internal/errors"
	"github.com/mhdinshadk/Chat-Bot/internal/render"
	"github.com/mhdinshadk/Chat-Bot/internal/session"
)

// errGenerationFailed is returned when the reply is the fallback text
var errGenerationFailed = errors.New("failed to generate answer")

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	colorError    = lipgloss.Color("#f7768e")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)

	fallbackBubbleStyle = assistantBubbleStyle.
				BorderForeground(colorError).
				Foreground(colorError)
)

// spinner handles the animated loading indicator on stderr
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var bar strings.Builder
	for i := 0; i < 16; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+s.frame)%len(gradientColors)])
		bar.WriteString(style.Render(barChars[(i+s.frame/2)%len(barChars)]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(s.frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery answers a single prompt through a fresh session and prints the reply.
// A failed cycle still prints the fallback text, then returns errGenerationFailed.
func runQuery(ctx context.Context, deps *Dependencies, opts *rootOptions, rt *runtime, prompt string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(prompt) == "" {
		return apierrors.ErrEmptyPrompt
	}

	completer, err := deps.NewCompleter(rt.cfg, rt.env, opts.mock)
	if err != nil {
		return err
	}
	defer closeCompleter(completer)

	ctrl := session.New(completer, session.WithLogger(rt.log))
	decorated := !opts.raw

	if rt.cfg.Verbose && decorated {
		fmt.Fprintf(deps.Stderr, "[verbose] Provider: %s  Model: %s  Session: %s\n", rt.cfg.Provider, rt.cfg.Model, ctrl.ID())
	}

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, "Generating...")
		spin.start()
	}

	start := time.Now()
	reply, err := ctrl.Send(ctx, prompt)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		return err
	}

	failed := reply.IsFallback()
	if spin != nil {
		if failed {
			spin.stopWithError()
		} else {
			spin.stopWithSuccess("Done")
		}
	}

	if rt.cfg.Verbose && decorated {
		fmt.Fprintf(deps.Stderr, "[verbose] Request took %s\n", time.Since(start).Round(time.Millisecond))
	}

	if err := writeReply(deps, opts, rt, reply.Text, failed); err != nil {
		return err
	}

	if failed {
		if decorated {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorTextDim).Render(
				fmt.Sprintf("  Details in %s", rt.logPath),
			))
		}
		return errGenerationFailed
	}
	return nil
}

func writeReply(deps *Dependencies, opts *rootOptions, rt *runtime, text string, failed bool) error {
	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !opts.raw {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Response saved to %s", opts.output),
			))
		}
		return nil
	}

	if opts.raw {
		fmt.Fprint(deps.Stdout, text)
		return nil
	}

	if rt.cfg.CopyToClipboard && !failed {
		if err := deps.CopyToClipboard(text); err != nil {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			))
		} else {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	width, isTTY := deps.Terminal()
	bubbleWidth := width - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	fmt.Fprintln(deps.Stdout, assistantLabelStyle.Render("✦ AI"))

	if failed {
		fmt.Fprintln(deps.Stdout, fallbackBubbleStyle.Width(bubbleWidth).Render(text))
		return nil
	}

	renderOpts := render.OptionsFromConfig(rt.cfg.Markdown).WithWidth(bubbleWidth - 4)
	if !isTTY {
		renderOpts = renderOpts.WithStyle(render.ThemeNoTTY)
	}
	fmt.Fprintln(deps.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(render.Reply(text, renderOpts)))
	return nil
}
