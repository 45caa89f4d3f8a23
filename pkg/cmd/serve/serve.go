package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Paintersrp/hoverlink/internal/mcp"
	"github.com/Paintersrp/hoverlink/internal/state"
)

func NewCmdServe(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mcp",
		Aliases: []string{"serve"},
		Short:   "Serve the phrase index to editors over MCP on stdio.",
		Long: heredoc.Doc(`
			Builds the index and serves it as a Model Context Protocol server on
			stdin and stdout, with the tools resolve, select_spans, lookup and
			stats. The vault is watched so answers follow edits to your notes.

			Logs go to stderr; pass --verbose for lifecycle events.
		`),
		Example: "hoverlink mcp",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, s)
		},
	}

	return cmd
}

func run(ctx context.Context, s *state.State) error {
	if err := s.Index.Build(ctx); err != nil {
		return err
	}
	watcher, err := s.StartWatcher()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		// The watcher stops with the server.
		defer watcher.Close()
		return mcp.NewServer(s.Index, s.Logger).Run(gctx)
	})
	return g.Wait()
}
