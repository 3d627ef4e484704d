package thermostat

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/nestctl/internal/logging"
)

// Apply writes every field set in u and then reads back the target
// temperature. Each field is sent as its own PUT; the PUTs run concurrently
// and the read is not issued until all of them have settled. If any write
// fails, the read is skipped and all write failures are returned together.
// An empty update is a plain Read.
func (c *Client) Apply(ctx context.Context, u Update) (float64, error) {
	if err := c.writeAll(ctx, u.Split()); err != nil {
		return 0, err
	}
	return c.Read(ctx)
}

func (c *Client) writeAll(ctx context.Context, parts []Update) error {
	if len(parts) == 0 {
		return nil
	}

	// Plain Group rather than WithContext: a failing write must not cancel its
	// sibling, every write runs to a terminal state.
	var g errgroup.Group
	errs := make([]error, len(parts))
	for i, part := range parts {
		g.Go(func() error {
			errs[i] = c.Write(ctx, part)
			return errs[i]
		})
	}
	_ = g.Wait()

	err := multierr.Combine(errs...)
	if err != nil {
		logging.Warn("Skipping read after failed write",
			zap.String("device", c.device),
			zap.Int("failed", len(multierr.Errors(err))),
			zap.Int("writes", len(parts)),
		)
	}
	return err
}
