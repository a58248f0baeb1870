package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ternarybob/verity/internal/interfaces"
	"github.com/ternarybob/verity/internal/models"
)

var (
	runsTicker string
	runsStatus string
	runsLimit  int
	runsJSON   bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect persisted analysis runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs, newest first",
	Example: `  verity runs list
  verity runs list --ticker AAPL --limit 5
  verity runs list --status failed`,
	Args: cobra.NoArgs,
	RunE: runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)

	runsListCmd.Flags().StringVarP(&runsTicker, "ticker", "t", "", "Only runs for this ticker")
	runsListCmd.Flags().StringVar(&runsStatus, "status", "", "Only runs with this status (queued, running, completed, failed)")
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 0, "Maximum runs to list (defaults to evaluation.history_limit)")
	runsShowCmd.Flags().BoolVar(&runsJSON, "json", false, "Print the full run as JSON")
}

func runRunsList(cmd *cobra.Command, args []string) error {
	runs, err := openRunStorage()
	if err != nil {
		return err
	}

	limit := runsLimit
	if limit <= 0 {
		limit = config.Evaluation.HistoryLimit
	}

	list, err := runs.ListRuns(context.Background(), &interfaces.RunListOptions{
		Ticker: runsTicker,
		Status: models.RunStatus(runsStatus),
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	fmt.Println(renderRunList(list))
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	runs, err := openRunStorage()
	if err != nil {
		return err
	}

	run, err := runs.GetRun(context.Background(), args[0])
	if err != nil {
		return err
	}

	if runsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}
	fmt.Println(renderRun(run))
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	runs, err := openRunStorage()
	if err != nil {
		return err
	}
	if err := runs.DeleteRun(context.Background(), args[0]); err != nil {
		return err
	}
	logger.Info().Str("run_id", args[0]).Msg("Run deleted")
	return nil
}
