package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Clear revokes the stored tokens and removes them from the credential store.
//
// A token that was removed without being revoked (--force) is reported as a warning. Any token that
// could not be read or removed fails the command.
func (r *Runner) Clear(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(ctx, cmd); err != nil {
		return err
	}

	var errs []error
	force := cmd.Bool("force")
	report := r.tokens.Clear(ctx, force)
	for _, res := range report.Results {
		switch {
		case res.Deleted:
			r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("Successfully cleared %s token", res.Key)))
			if res.Err != nil {
				r.logger.Warn("token cleared without revocation", "key", res.Key, "error", res.Err)
			}
		case res.Found && force:
			r.writePlain("%s\n", r.palette.Err(fmt.Sprintf("Could not remove %s token from the credential store", res.Key)))
			errs = append(errs, fmt.Errorf("%s: %w", res.Key, res.Err))
		case res.Found:
			r.writePlain("%s\n", r.palette.Err(fmt.Sprintf("Could not clear %s token, use --force to remove it anyway", res.Key)))
			errs = append(errs, fmt.Errorf("%s: %w", res.Key, res.Err))
		case res.Err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", res.Key, res.Err))
		default:
			r.logger.Info("no stored token", "key", res.Key)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}
