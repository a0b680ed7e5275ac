package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/rules"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the merchant rule index",
	}

	cmd.PersistentFlags().String("rules", "", "additional merchant rules YAML file")

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesTestCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active merchant rules, most specific first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			index, err := loadIndex(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FRAGMENT\tCATEGORY")
			for _, r := range index.Rules() {
				fmt.Fprintf(w, "%s\t%s\n", r.Fragment, r.Category)
			}
			_ = w.Flush()

			fmt.Printf("\n%d rules\n", index.Size())
			return nil
		},
	}
}

func rulesTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <description>",
		Short: "Test a transaction description against the rule index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := loadIndex(cmd)
			if err != nil {
				return err
			}

			description := args[0]
			fmt.Printf("normalized: %q\n", rules.Normalize(description))

			category, fragment, ok := index.Lookup(description)
			if !ok {
				fmt.Println("no rule matched; this transaction would route to inference")
				return nil
			}

			fmt.Printf("matched %q -> %s\n", fragment, category)
			return nil
		},
	}
}

func loadIndex(cmd *cobra.Command) (*rules.Index, error) {
	ruleSet := rules.DefaultRules()

	rulesPath, _ := cmd.Flags().GetString("rules")
	if rulesPath != "" {
		extra, err := rules.LoadFile(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules from %s: %w", rulesPath, err)
		}
		ruleSet = append(ruleSet, extra...)
	}

	return rules.NewIndex(ruleSet), nil
}
