package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"delivery-ops/internal/models"
	"delivery-ops/internal/store"

	"github.com/spf13/cobra"
)

var errSnapshotExists = errors.New("a snapshot is already stored, use --force to overwrite it")

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect or rewrite the stored state snapshot",
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a summary of the stored snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPersister(cmd, func(ctx context.Context, p store.Persister) error {
			return inspectSnapshot(ctx, p, cmd.OutOrStdout())
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Rewrite the stored snapshot in the current format",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPersister(cmd, func(ctx context.Context, p store.Persister) error {
			return migrateSnapshot(ctx, p, cmd.OutOrStdout())
		})
	},
}

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the demo roster and orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPersister(cmd, func(ctx context.Context, p store.Persister) error {
			return seedSnapshot(ctx, p, cmd.OutOrStdout(), seedForce, time.Now())
		})
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "overwrite an existing snapshot")
	snapshotCmd.AddCommand(inspectCmd, migrateCmd, seedCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func withPersister(cmd *cobra.Command, fn func(context.Context, store.Persister) error) error {
	ctx := cmd.Context()
	p, closePersister, err := openPersister(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePersister()
	return fn(ctx, p)
}

func inspectSnapshot(ctx context.Context, p store.Persister, w io.Writer) error {
	data, err := p.Load(ctx)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		fmt.Fprintln(w, "no snapshot stored")
		return nil
	}
	s, version, err := store.DecodeSnapshot(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "version:        %d\n", version)
	fmt.Fprintf(w, "language:       %s\n", s.Language)
	fmt.Fprintf(w, "next order id:  %s\n", store.FormatOrderID(s.NextOrderSeq))
	fmt.Fprintf(w, "couriers:       %d (%d active)\n", len(s.Couriers), len(store.ActiveCouriers(s)))
	fmt.Fprintf(w, "orders:         %d\n", len(s.Orders))
	counts := store.CountByStatus(s.Orders)
	for _, status := range models.AllStatuses {
		if counts[status] > 0 {
			fmt.Fprintf(w, "  %-15s %d\n", status, counts[status])
		}
	}
	return nil
}

func migrateSnapshot(ctx context.Context, p store.Persister, w io.Writer) error {
	data, err := p.Load(ctx)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		fmt.Fprintln(w, "no snapshot stored")
		return nil
	}
	s, version, err := store.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	if version == store.SchemaVersion {
		fmt.Fprintf(w, "snapshot already at version %d\n", version)
		return nil
	}
	if err := store.Save(ctx, p, s); err != nil {
		return err
	}
	fmt.Fprintf(w, "migrated snapshot from version %d to %d (%d orders)\n", version, store.SchemaVersion, len(s.Orders))
	return nil
}

func seedSnapshot(ctx context.Context, p store.Persister, w io.Writer, force bool, now time.Time) error {
	if !force {
		data, err := p.Load(ctx)
		if err != nil {
			return err
		}
		if len(data) > 0 {
			return errSnapshotExists
		}
	}
	s := store.SeedState(now)
	if err := store.Save(ctx, p, s); err != nil {
		return err
	}
	fmt.Fprintf(w, "stored seed data: %d orders, %d couriers\n", len(s.Orders), len(s.Couriers))
	return nil
}
