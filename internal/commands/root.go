// Package commands provides CLI commands for chatbot.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhdinshadk/Chat-Bot/internal/tui"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds the flags shared by all commands
type rootOptions struct {
	model     string
	output    string
	file      string
	logLevel  string
	raw       bool
	mock      bool
	logStderr bool
	version   bool
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "chatbot [prompt]",
		Short: "Chat with a generative language model from the terminal",
		Long: `chatbot sends your text to the Google Generative Language API and renders
the reply as formatted markdown. Each message is answered on its own, no
conversation history is sent.

The API key is read from GEMINI_API_KEY (or VITE_API_GENERATIVE_LANGUAGE_CLIENT),
either from the environment or from a .env file.

Examples:
  chatbot chat                        Start interactive chat
  chatbot "What is Go?"               Send a single query
  chatbot -f prompt.md                Read prompt from file
  cat prompt.md | chatbot             Read prompt from stdin
  chatbot "Hello" -o response.md      Save response to file
  chatbot config set model gemini-2.5-flash`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintf(deps.Stdout, "chatbot %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps, opts, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}

			rt, err := deps.setup(opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			return runQuery(cmd.Context(), deps, opts, rt, prompt)
		},
	}

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVarP(&opts.model, "model", "m", "", "Model to use (e.g., gemini-2.5-flash)")
	cmd.PersistentFlags().BoolVar(&opts.mock, "mock", false, "Answer with a local echo model instead of the API")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.logStderr, "log-stderr", false, "Also write logs to stderr")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save response to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print only the reply text, without decoration")
	cmd.Flags().BoolVarP(&opts.version, "version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// readPrompt picks the prompt source: file flag, then piped stdin, then the argument
func readPrompt(deps *Dependencies, opts *rootOptions, args []string) (string, bool, error) {
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if deps.StdinPiped() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// Execute runs the root command
func Execute() {
	deps := NewDependencies()
	if err := NewRootCmd(deps).Execute(); err != nil {
		if !errors.Is(err, errGenerationFailed) {
			fmt.Fprintln(deps.Stderr, tui.FormatError(err))
		}
		os.Exit(1)
	}
}
