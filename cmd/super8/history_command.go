package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"super8/internal/history"
	"super8/internal/player"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent crop-detect, preview and convert runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "History disabled (set history.enabled = true to record runs)")
				return nil
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(runs, limit, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

var historyColumns = []tableColumn{
	{header: "Finished"},
	{header: "Operation"},
	{header: "Input"},
	{header: "Output"},
	{header: "Status"},
	{header: "Exit", align: alignRight},
	{header: "Duration", align: alignRight},
}

func renderHistoryTable(runs []history.Run, limit int, now time.Time) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		output := "-"
		if run.Output != "" {
			output = filepath.Base(run.Output)
		}
		rows = append(rows, []string{
			humanize.RelTime(run.FinishedAt, now, "ago", "from now"),
			operationLabel(player.Operation(run.Operation)),
			filepath.Base(run.Input),
			output,
			string(run.Status),
			strconv.Itoa(run.ExitCode),
			run.Duration().Round(time.Second).String(),
		})
	}
	caption := ""
	if len(runs) == limit {
		caption = fmt.Sprintf("showing the newest %d runs; use --limit for more", limit)
	}
	return renderTable(historyColumns, rows, caption)
}
