package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"agentchat/internal/agentapi"
	"agentchat/internal/chat"
	"agentchat/internal/config"
	"agentchat/internal/probe"
	"agentchat/internal/transcript"
)

// version is set at build time via -ldflags.
var version = "dev"

// errReported marks failures whose details were already written to the
// command output.
var errReported = errors.New("reported")

type session struct {
	id     string
	cfg    config.Config
	client *agentapi.Client
	ctrl   *chat.Controller
	prober *probe.Prober
}

func newSession(cfg config.Config, logger *log.Logger) (*session, error) {
	id := uuid.NewString()
	client, err := agentapi.New(
		cfg.BaseURL,
		agentapi.WithTimeout(cfg.HTTPTimeout()),
		agentapi.WithSessionID(id),
	)
	if err != nil {
		return nil, err
	}
	return &session{
		id:     id,
		cfg:    cfg,
		client: client,
		ctrl:   chat.New(transcript.NewStore(), client, chat.WithFallback(cfg.FallbackError), chat.WithLogger(logger)),
		prober: probe.New(client, logger),
	}, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "agentchat",
		Short:         "Terminal chat client for an agent backend",
		Long:          "agentchat sends what you type to the agent's prompt endpoint and shows the\nreply in a scrolling transcript. Ctrl+K checks the backend health endpoint.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	cmd.SetVersionTemplate("agentchat {{.Version}}\n")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newAskCmd(),
		newHealthCmd(),
	)
	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "agentchat")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	s, err := newSession(cfg, log.Default())
	if err != nil {
		return err
	}
	log.Printf("session %s started against %s (config: %s)", s.id, cfg.BaseURL, nullCoalesce(cfg.File, "none"))

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(newModel(cfg, s.id, s.ctrl, s.prober), opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("agentchat fatal error: %w", err)
	}
	return nil
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <text...>",
		Short: "Send one prompt and print the exchange",
		Long:  "Sends a single prompt, prints the user and agent lines of the transcript,\nand exits non-zero when the agent call failed.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			s, err := newSession(cfg, log.New(cmd.ErrOrStderr(), "agentchat: ", log.LstdFlags))
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if !s.ctrl.Submit(cmd.Context(), text) {
				return errors.New("nothing to send: prompt is blank")
			}
			failed := false
			for _, msg := range s.ctrl.Transcript().Messages() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s> %s\n", roleLabel(msg.Role), msg.Content)
				if msg.Role == transcript.RoleError {
					failed = true
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the agent backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			s, err := newSession(cfg, log.New(io.Discard, "", 0))
			if err != nil {
				return err
			}
			status, _ := s.prober.Check(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cfg.BaseURL, status)
			if status != probe.StatusConnected {
				if lastErr := s.prober.LastError(); lastErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", lastErr)
				}
				return errReported
			}
			return nil
		},
	}
}

func nullCoalesce(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func main() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "agentchat: %v\n", err)
		}
		os.Exit(1)
	}
}
