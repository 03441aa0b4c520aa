package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/on-the-ground/react_ive_go/reactive/resource"
	"github.com/on-the-ground/react_ive_go/reactive/watch"
)

// FetchOptions holds flags for the fetch command.
type FetchOptions struct {
	*RootOptions
	Debounce time.Duration
	Timeout  time.Duration
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FetchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch a URL through a debounced async resource",
		Long: `Fetch a URL through a debounced async resource.

The URL is the resource's dependency set; the request runs generation-
tagged, so a refreshed fetch would discard a slower earlier reply.

Example:
  reactive fetch https://example.org --debounce 200ms`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(opts, args[0], cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 0, "quiet period before the request (0 uses the config default)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "overall timeout")

	return cmd
}

func runFetch(opts *FetchOptions, url string, cmd *cobra.Command) error {
	cfg, logger, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	defer logger.Sync()

	delay := opts.Debounce
	if delay <= 0 {
		delay = cfg.Resource.Debounce
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()

	client := &http.Client{}
	res := resource.New(ctx, watch.Of(url), func(ctx context.Context, deps watch.Set) (string, error) {
		target := deps[0].(string)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return "", err
		}
		resp, err := client.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s, %d bytes", resp.Status, len(body)), nil
	}, resource.Options[string]{
		Debounce:   delay,
		BufferSize: cfg.Resource.BufferSize,
		Logger:     logger,
	})
	defer res.Close()

	ch, stop := res.Watch()
	defer stop()

	for {
		select {
		case st := <-ch:
			switch st.Phase {
			case resource.Pending:
				logger.Debug("request started", zap.Uint64("generation", st.Generation))
			case resource.Succeeded:
				fmt.Fprintf(cmd.OutOrStdout(), "%s in %s\n",
					st.Value, st.Span.Duration().Round(time.Millisecond))
				return nil
			case resource.Failed:
				return st.Err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
