package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mhdinshadk/Chat-Bot/internal/render"
	"github.com/mhdinshadk/Chat-Bot/internal/session"
	"github.com/mhdinshadk/Chat-Bot/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Every message is answered on its own; only the text you send is forwarded.
While a reply is being generated further messages are not accepted.

Keys: Enter sends, Alt+Enter inserts a newline, Ctrl+Y copies the last
reply, Esc or Ctrl+C quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := deps.setup(opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			completer, err := deps.NewCompleter(rt.cfg, rt.env, opts.mock)
			if err != nil {
				return err
			}
			defer closeCompleter(completer)

			ctrl := session.New(completer, session.WithLogger(rt.log))
			rt.log.Info().Str("session", ctrl.ID()).Msg("chat started")

			modelName := rt.cfg.Model
			if opts.mock {
				modelName = "mock"
			}

			err = deps.RunChat(ctrl, tui.Options{
				ModelName: modelName,
				Render:    render.OptionsFromConfig(rt.cfg.Markdown),
				CopyFunc:  deps.CopyToClipboard,
			})

			// give a reply in flight a moment to reach the log, then leave
			waitBriefly(ctrl, chatExitGrace)
			rt.log.Info().
				Str("session", ctrl.ID()).
				Int("messages", len(ctrl.Transcript())).
				Bool("pending", ctrl.Pending()).
				Msg("chat ended")
			return err
		},
	}
}

// chatExitGrace bounds how long quitting waits for a reply still in flight
var chatExitGrace = 1500 * time.Millisecond

// waitBriefly waits for the session's request, giving up after grace
func waitBriefly(ctrl *session.Controller, grace time.Duration) bool {
	done := make(chan struct{})
	go func() {
		ctrl.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(grace):
		return false
	}
}
