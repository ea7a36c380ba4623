package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/cartwin/internal/storage"
)

func newSnapshotsCmd() *cobra.Command {
	snapshotsCmd := &cobra.Command{
		Use:   "snapshots",
		Short: "inspect saved car state snapshots",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE:  listSnapshots,
	}
	listCmd.Flags().StringVar(&sessionFilter, "session", "", "only show one session")
	listCmd.Flags().IntVar(&listLimit, "limit", storage.DefaultListLimit, "maximum snapshots to show")

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "show one snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  showSnapshot,
	}

	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "aggregate metrics over recent snapshots",
		Args:  cobra.NoArgs,
		RunE:  snapshotMetrics,
	}

	snapshotsCmd.AddCommand(listCmd, showCmd, metricsCmd)
	return snapshotsCmd
}

func listSnapshots(cmd *cobra.Command, args []string) error {
	store, err := storage.NewSnapshotStore(snapshotsDir())
	if err != nil {
		return err
	}

	snaps, err := store.List(storage.Query{SessionID: sessionFilter, Limit: listLimit})
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("no snapshots found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSESSION\tTIME\tENGINE\tGEAR\tMPH\tRPM\tTEMP\tFUEL\tKM/L")
	for _, s := range snaps {
		engine := "off"
		if s.EngineRunning {
			engine = "on"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f\t%.0f\t%.1f\t%.2f\t%.1f\n",
			s.ID,
			s.SessionID,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			engine,
			s.CurrentGear,
			s.Speed,
			s.RPM,
			s.Temperature,
			s.Fuel,
			s.Mileage,
		)
	}
	return w.Flush()
}

func showSnapshot(cmd *cobra.Command, args []string) error {
	store, err := storage.NewSnapshotStore(snapshotsDir())
	if err != nil {
		return err
	}

	snap, err := store.Get(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func snapshotMetrics(cmd *cobra.Command, args []string) error {
	store, err := storage.NewSnapshotStore(snapshotsDir())
	if err != nil {
		return err
	}

	m, err := store.Metrics()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
