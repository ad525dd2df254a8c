package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/coregx/binmatch"
	"github.com/coregx/binmatch/signature"
	"github.com/spf13/cobra"
)

var (
	rulesPath   string
	rulesFormat string
	rulesTags   []string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage signatures",
	Long:  "Commands for listing and checking signature files",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available signatures",
	Long:  "Display the builtin signatures, or those in --rules, with their IDs, names and patterns",
	RunE:  runRulesList,
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesListCmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "Path to a signatures file or directory")
	rulesListCmd.Flags().StringVar(&rulesFormat, "format", "table", "Output format: table, json")
	rulesListCmd.Flags().StringSliceVar(&rulesTags, "tag", nil, "Only list signatures with one of these tags")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	loader := signature.NewLoader()

	var sigs []*signature.Signature
	var err error
	if rulesPath != "" {
		sigs, err = loader.LoadPath(rulesPath)
		if err != nil {
			return fmt.Errorf("loading rules from %s: %w", rulesPath, err)
		}
	} else {
		sigs, err = loader.LoadBuiltin()
		if err != nil {
			return fmt.Errorf("loading builtin signatures: %w", err)
		}
	}
	sigs = signature.Filter(sigs, rulesTags...)

	switch rulesFormat {
	case "json":
		return outputRulesJSON(cmd, sigs)
	case "table":
		return outputRulesTable(cmd, sigs)
	default:
		return fmt.Errorf("unknown output format: %s", rulesFormat)
	}
}

func outputRulesJSON(cmd *cobra.Command, sigs []*signature.Signature) error {
	if sigs == nil {
		sigs = []*signature.Signature{}
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(sigs)
}

func outputRulesTable(cmd *cobra.Command, sigs []*signature.Signature) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID\tName\tPattern\tTags\n")
	fmt.Fprintf(w, "--\t----\t-------\t----\n")
	for _, s := range sigs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, canonical(s.Compiled()), strings.Join(s.Tags, ","))
	}
	return nil
}

func canonical(p *binmatch.Pattern) string {
	if p == nil {
		return ""
	}
	return p.String()
}
