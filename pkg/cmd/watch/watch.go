package watch

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/hoverlink/internal/state"
)

const defaultSettle = time.Second

func NewCmdWatch(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"w"},
		Short:   "Keep the index in sync with the vault until interrupted.",
		Long: heredoc.Doc(`
			Builds the index, then applies every note created, changed,
			renamed or deleted in the vault as it happens. Each event is
			logged at debug level, and a summary of the index is logged once
			the vault has been quiet for --settle.
		`),
		Example: "hoverlink watch --verbose",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd, s)
		},
	}

	cmd.Flags().Duration("settle", defaultSettle, "Quiet period before the index summary is logged")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, s *state.State) error {
	settle, err := cmd.Flags().GetDuration("settle")
	if err != nil {
		return err
	}

	if err := s.Index.Build(ctx); err != nil {
		return err
	}
	s.Logger.Info("watching vault", "vault", s.Vault, "status", state.FormatIndexStatus(s.Index.Stats()))

	watcher, err := s.StartWatcher()
	if err != nil {
		return err
	}
	watcher.OnChange(func(ev state.Event) {
		s.Logger.Debug("note event", "event", ev.Kind, "path", ev.Path)
	})
	watcher.OnSettled(settle, func() {
		status := state.FormatIndexStatus(s.Index.Stats())
		s.RootStatus.Set(status)
		s.Logger.Info("index settled", "status", status)
	})

	return watcher.Run(ctx)
}
