package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/services/structured"
)

var instructionsCmd = &cobra.Command{
	Use:   "instructions <advisor>",
	Short: "Print the structured output instructions for an advisor",
	Long: `Print the prompt block handed to the generation layer for one advisor:
the JSON schema, the claim count bounds, the allowed evidence keys and the
advisor's focus.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstructions,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Verity version %s\n", common.GetFullVersion())
	},
}

func init() {
	rootCmd.AddCommand(instructionsCmd, versionCmd)
}

func runInstructions(cmd *cobra.Command, args []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	persona, ok := registry.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown advisor %q (known: %s)", args[0], strings.Join(registry.Keys(), ", "))
	}

	fmt.Println(persona.Title)
	fmt.Println()
	fmt.Println(structured.Instructions(persona.AllowedEvidenceKeys, persona.MinClaims, persona.MaxClaims, persona.FocusHint))
	return nil
}
