package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/statmap/pkg/api"
	"github.com/matzehuels/statmap/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		storeURL string
		timeout  time.Duration
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Example: `  statmap serve --addr :8080
  statmap serve --store mongodb://localhost:27017/statmap --cache redis://localhost:6379/0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, storeURL, timeout, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", api.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&storeURL, "store", "", "result store: memory or mongodb://... (default: no store)")
	cmd.Flags().DurationVar(&timeout, "timeout", api.DefaultTimeout, "per-request timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, storeURL string, timeout time.Duration, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	opts := []api.Option{api.WithLogger(c.Logger), api.WithTimeout(timeout)}
	if storeURL != "" {
		st, err := store.Open(ctx, storeURL)
		if err != nil {
			return err
		}
		defer st.Close(context.Background())
		opts = append(opts, api.WithStore(st))
		c.Logger.Info("result store ready")
	}

	printInfo("Listening on %s", StyleHighlight.Render(addr))
	return api.New(runner, opts...).ListenAndServe(ctx, addr)
}
