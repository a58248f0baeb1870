package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ternarybob/verity/internal/bundle"
	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/interfaces"
	"github.com/ternarybob/verity/internal/models"
	"github.com/ternarybob/verity/internal/services/evaluation"
)

var (
	evalBundlePath string
	evalOutputs    map[string]string
	evalTicker     string
	evalPersist    bool
	evalJSON       bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate advisor outputs against a data bundle",
	Long: `Evaluate runs the full pipeline for one ticker: data quality checks,
feature signals, structured parsing and claim verification for every
registered advisor, then the policy decision.

Advisor outputs are raw text files, one per advisor. Advisors without an
output file are evaluated as if they returned nothing.`,
	Example: `  # Evaluate two advisors against a JSON bundle
  verity evaluate --bundle data/AAPL.json --output warren=out/warren.txt --output bill=out/bill.txt

  # Persist the run and print machine-readable output
  verity evaluate --bundle data/AAPL.yaml --output robin=out/robin.json --persist --json`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evalBundlePath, "bundle", "b", "", "Data bundle file (.json, .yaml or .yml)")
	evaluateCmd.Flags().StringToStringVarP(&evalOutputs, "output", "o", nil, "Advisor output file as advisor=path (repeatable)")
	evaluateCmd.Flags().StringVarP(&evalTicker, "ticker", "t", "", "Ticker override (defaults to the bundle ticker or file name)")
	evaluateCmd.Flags().BoolVar(&evalPersist, "persist", false, "Save the run to the run store")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "Print the decision and verification as JSON")
	_ = evaluateCmd.MarkFlagRequired("bundle")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !evalJSON {
		common.PrintBanner()
	}

	data, err := bundle.LoadFile(evalBundlePath)
	if err != nil {
		return err
	}
	outputs, err := bundle.ReadOutputs(evalOutputs)
	if err != nil {
		return err
	}

	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	svc, err := evaluation.NewService(registry, meters, logger)
	if err != nil {
		return err
	}

	var runs interfaces.RunStorage
	if evalPersist || config.Evaluation.Persist {
		if runs, err = openRunStorage(); err != nil {
			return err
		}
	}

	runner := evaluation.NewRunner(evaluation.Wrap(svc, logger), runs, logger)
	run, err := runner.Run(ctx, models.EvaluationRequest{
		Ticker:  evalTicker,
		Bundle:  data,
		Outputs: outputs,
	})
	if err != nil {
		return err
	}

	if evalJSON {
		return writeRunJSON(run)
	}
	fmt.Println(renderRun(run))
	return nil
}

// runSummary is the JSON shape printed by evaluate --json
type runSummary struct {
	RunID        string                               `json:"run_id"`
	Ticker       string                               `json:"ticker"`
	Decision     models.PolicyDecision                `json:"final_policy"`
	Verification map[string]models.VerificationReport `json:"verification"`
}

func writeRunJSON(run *models.AnalysisRun) error {
	summary := runSummary{RunID: run.ID, Ticker: run.Ticker}
	if run.Result != nil {
		summary.Decision = run.Result.Decision
		summary.Verification = run.Result.Verification
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}
	return nil
}
