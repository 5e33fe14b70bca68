package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/genesearch/internal/search"
	"github.com/pdiddy/genesearch/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List web search results for a gene in a species",
	Long: `Search queries the custom search API for "<gene>" <species> and prints the
results in ranked order. Duplicate links are removed.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringP("gene", "g", "", "gene name (required)")
	searchCmd.Flags().StringP("species", "s", "", "species name (required)")
	searchCmd.Flags().Int("max-results", 10, "maximum number of results to return (1-10)")
	searchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	_ = searchCmd.MarkFlagRequired("gene")
	_ = searchCmd.MarkFlagRequired("species")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	gene, _ := cmd.Flags().GetString("gene")
	species, _ := cmd.Flags().GetString("species")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	asJSON, _ := cmd.Flags().GetBool("json")

	creds, err := resolveCredentials()
	if err != nil {
		return err
	}

	httpCfg := httpConfig(timeout)
	out, err := search.Search(cmd.Context(),
		&search.GoogleBackend{Client: &http.Client{Timeout: httpCfg.Timeout}},
		types.Query{Gene: gene, Species: species},
		types.SearchConfig{
			HTTPConfig: httpCfg,
			APIKey:     creds.GoogleAPIKey,
			EngineID:   creds.GoogleEngineID,
			MaxResults: maxResults,
		})
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if asJSON {
		return search.FormatJSON(out, cmd.OutOrStdout())
	}
	search.FormatTable(out, cmd.OutOrStdout())
	return nil
}
