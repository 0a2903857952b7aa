package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/pingpong-club/internal/interfaces/httpapi"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

// openFunc builds the club services and returns a closer for them.
type openFunc func(ctx context.Context) (httpapi.Services, func() error, error)

func newRootCmd(open openFunc, logger *logging.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "clubctl",
		Short:         "Maintenance tasks for the ping-pong club database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	run := func(fn func(ctx context.Context, cmd *cobra.Command, svc httpapi.Services) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := closeFn(); err != nil {
					logger.Warn("close services", "error", err)
				}
			}()
			return fn(cmd.Context(), cmd, svc)
		}
	}

	ranks := &cobra.Command{
		Use:   "recompute-ranks",
		Short: "Recompute dense rankings for every category",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, svc httpapi.Services) error {
			if err := svc.Ranking.RecomputeAll(ctx); err != nil {
				return err
			}
			logger.Info("rankings recomputed")
			return nil
		}),
	}

	stats := &cobra.Command{
		Use:   "rebuild-stats",
		Short: "Rebuild match counters from approved matches",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, svc httpapi.Services) error {
			result, err := svc.Matches.RebuildStats(ctx)
			if err != nil {
				return err
			}
			logger.Info("stats rebuilt", "players", result.Players, "matches", result.Matches)
			return nil
		}),
	}

	divisions := &cobra.Command{
		Use:   "divisions",
		Short: "Run or undo a division update",
	}
	divisions.AddCommand(
		&cobra.Command{
			Use:   "update",
			Short: "Re-bucket players into divisions and store the log",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, cmd *cobra.Command, svc httpapi.Services) error {
				log, err := svc.Divisions.Update(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (log %d, %d players)\n", log.Title, log.ID, len(log.Rows))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "revert",
			Short: "Undo the latest division update",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, cmd *cobra.Command, svc httpapi.Services) error {
				log, err := svc.Divisions.RevertLatest(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (log %d, %d players)\n", log.Title, log.ID, len(log.Rows))
				return nil
			}),
		},
	)

	var username, password string
	admin := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, svc httpapi.Services) error {
			secret := password
			if secret == "" {
				secret = os.Getenv("CLUBCTL_ADMIN_PASSWORD")
			}
			if strings.TrimSpace(username) == "" || secret == "" {
				return fmt.Errorf("--username and --password (or CLUBCTL_ADMIN_PASSWORD) are required")
			}
			user, err := svc.Accounts.CreateAdmin(ctx, username, secret)
			if err != nil {
				return err
			}
			logger.Info("admin created", "user_id", user.ID, "username", user.Username)
			return nil
		}),
	}
	admin.Flags().StringVar(&username, "username", "", "admin username")
	admin.Flags().StringVar(&password, "password", "", "admin password")

	root.AddCommand(ranks, stats, divisions, admin)
	return root
}
