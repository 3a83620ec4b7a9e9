/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/archgate/internal/boundary"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in boundary rules",
	Long: `Rules prints the registered rule table in registration order, which is
also the order sections appear in check reports.`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().Bool("json", false, "Output the rule table as JSON")
}

func runRules(cmd *cobra.Command, _ []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	rules := boundary.NewEngine().Rules()

	if jsonOutput {
		type entry struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		entries := make([]entry, 0, len(rules))
		for _, rule := range rules {
			entries = append(entries, entry{Name: rule.Name, Description: rule.Description})
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	for _, rule := range rules {
		cmd.Printf("%-22s %s\n", rule.Name, rule.Description)
	}
	return nil
}
