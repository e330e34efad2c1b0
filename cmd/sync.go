package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/teemow/duesync/internal/boardsync"
	"github.com/teemow/duesync/internal/classroom"
	"github.com/teemow/duesync/internal/config"
	"github.com/teemow/duesync/internal/coursesync"
	"github.com/teemow/duesync/internal/google"
	"github.com/teemow/duesync/internal/instrumentation"
	"github.com/teemow/duesync/internal/logging"
	"github.com/teemow/duesync/internal/trello"
)

// stdinIsTerminal reports whether prompts can be shown.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newSyncCmd() *cobra.Command {
	var req coursesync.Request

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Create Trello cards for upcoming Classroom assignments",
		Long: `Resolve a Classroom course by name or id, fetch its coursework and create a
card on the given Trello board and list for every assignment that is not yet
past due. Values not given as flags are asked for on the terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptMissing(cmd.InOrStdin(), cmd.ErrOrStderr(), stdinIsTerminal(), &req); err != nil {
				return err
			}
			return runSync(cmd.Context(), cmd.OutOrStdout(), req)
		},
	}

	cmd.Flags().StringVar(&req.Course, "course", "", "Classroom course name or id")
	cmd.Flags().StringVar(&req.Board, "board", "", "Trello board name")
	cmd.Flags().StringVar(&req.List, "list", "", "Trello list name on the board")

	return cmd
}

// promptMissing asks for every empty field of req. Without a terminal a
// missing field is an error.
func promptMissing(in io.Reader, out io.Writer, interactive bool, req *coursesync.Request) error {
	fields := []struct {
		label string
		flag  string
		value *string
	}{
		{"Course Name or ID", "course", &req.Course},
		{"Board Name", "board", &req.Board},
		{"List Name", "list", &req.List},
	}

	reader := bufio.NewReader(in)
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		if !interactive {
			return fmt.Errorf("--%s is required when stdin is not a terminal", f.flag)
		}

		fmt.Fprintf(out, "%s: ", f.label)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read %s: %w", f.flag, err)
		}
		*f.value = strings.TrimSpace(line)
		if *f.value == "" {
			return fmt.Errorf("%s must not be empty", f.flag)
		}
	}
	return nil
}

func runSync(ctx context.Context, out io.Writer, req coursesync.Request) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := newInstrumentation(ctx)
	if err != nil {
		return err
	}
	defer shutdownInstrumentation(provider)
	metrics := provider.Metrics()

	httpClient, err := newManager(cfg, metrics).HTTPClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to authorize Google Classroom: %w", err)
	}

	courses, err := classroom.NewClient(ctx, httpClient,
		classroom.WithMetrics(metrics),
		classroom.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}

	board := trello.NewClient(cfg.Trello.APIKey, cfg.Trello.Token,
		trello.WithBaseURL(cfg.Trello.BaseURL),
		trello.WithTimeout(cfg.Trello.Timeout),
		trello.WithMetrics(metrics),
		trello.WithLogger(slog.Default()),
	)
	syncer := boardsync.New(board,
		boardsync.WithLogger(logging.NewSlogAdapter(slog.Default())),
		boardsync.WithMetrics(metrics),
	)

	runner := coursesync.NewRunner(courses, syncer,
		coursesync.WithMetrics(metrics),
		coursesync.WithLogger(slog.Default()),
	)

	report, err := runner.Run(ctx, req)
	printReport(out, report)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Operation completed")
	return nil
}

func printReport(out io.Writer, report coursesync.Report) {
	for _, c := range report.Cards {
		switch c.Outcome {
		case boardsync.OutcomeExists:
			fmt.Fprintf(out, "Card %q already exists.\n", c.Title)
		case boardsync.OutcomePartial:
			fmt.Fprintf(out, "Card %q created without due date.\n", c.Title)
		default:
			fmt.Fprintf(out, "Card %q created, due %s.\n", c.Title, c.Due.Format("2006-01-02 15:04 MST"))
		}
	}
	for _, s := range report.Skipped {
		if s.Reason == classroom.ReasonNoDueDate {
			fmt.Fprintf(out, "Skipped %q: no due date.\n", s.Title)
		}
	}
}

func newInstrumentation(ctx context.Context) (*instrumentation.Provider, error) {
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	return provider, nil
}

// shutdownInstrumentation flushes exporters with a fresh context so an
// interrupted run still pushes its metrics.
func shutdownInstrumentation(provider *instrumentation.Provider) {
	if err := provider.Shutdown(context.Background()); err != nil {
		slog.Warn("error during instrumentation shutdown", logging.Err(err))
	}
}

func newManager(cfg *config.Config, metrics *instrumentation.Metrics) *google.Manager {
	return google.NewManager(cfg.Google.TokenFile, cfg.Google.CredentialsFile,
		google.WithMetrics(metrics),
		google.WithLogger(slog.Default()),
	)
}
