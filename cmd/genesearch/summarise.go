// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/genesearch/internal/fetch"
	"github.com/pdiddy/genesearch/internal/report"
	"github.com/pdiddy/genesearch/internal/search"
	"github.com/pdiddy/genesearch/internal/summarise"
	"github.com/pdiddy/genesearch/pkg/types"
)

// minMaxParagraphs is the smallest accepted --max-paragraphs value; the cap
// must be strictly greater.
const minMaxParagraphs = 3

// ErrInvalidMaxParagraphs is returned when --max-paragraphs is too small. It
// is checked before any external call.
var ErrInvalidMaxParagraphs = errors.New("max paragraphs must be greater than 3")

// ErrInvalidNumPapers is returned when --num-papers is below 1.
var ErrInvalidNumPapers = errors.New("num papers must be at least 1")

var summariseCmd = &cobra.Command{
	Use:     "summarise",
	Aliases: []string{"summarize"},
	Short:   "Search, download, and summarise articles about a gene in a species",
	Long: `Summarise searches the web for "<gene>" <species>, downloads the top
--num-papers results, summarises each one, keeps the summaries that are about
the requested species, and merges them into a single answer. The answer is
printed and written to <gene>_<species>.txt.

With --use-open-api and OPENAI_API_KEY set, a chat model summarises each
article paragraph by paragraph. Otherwise the corpus is sent to the batch
summarisation service at CLUSTER_API_URL.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return viper.BindPFlags(cmd.Flags())
	},
	RunE: runSummarise,
}

func init() {
	defaults := types.DefaultClusterConfig()

	f := summariseCmd.Flags()
	f.StringP("gene", "g", "", "gene name (required)")
	f.StringP("species", "s", "", "species name (required)")
	f.IntP("num-papers", "n", 3, "number of search results to download")
	f.Int("max-paragraphs", 10, "maximum paragraphs summarised per reduction round (must be > 3)")
	f.Bool("use-open-api", false, "summarise with the chat model instead of the summarisation service")
	f.String("model", summarise.DefaultChatModel, "chat model used with --use-open-api")
	f.Float64("threshold", defaults.Threshold, "minimum query similarity for service summaries")
	f.Float64("temperature", defaults.Temperature, "summarisation service sampling temperature")
	f.Int("max-length", defaults.MaxLength, "summarisation service maximum summary length")
	f.Int("min-length", defaults.MinLength, "summarisation service minimum summary length")
	f.Bool("do-sample", false, "ask the summarisation service to sample (unset leaves the service default)")
	f.Duration("timeout", 0, "HTTP timeout for search and downloads (default 60s)")
	f.Duration("service-timeout", 5*time.Minute, "HTTP timeout for the summarisation service")
	f.String("output-dir", "", "directory for the summary file (default: working directory)")

	_ = summariseCmd.MarkFlagRequired("gene")
	_ = summariseCmd.MarkFlagRequired("species")

	rootCmd.AddCommand(summariseCmd)
}

func validateMaxParagraphs(n int) error {
	if n <= minMaxParagraphs {
		return fmt.Errorf("%w (got %d)", ErrInvalidMaxParagraphs, n)
	}
	return nil
}

func validateNumPapers(n int) error {
	if n < 1 {
		return fmt.Errorf("%w (got %d)", ErrInvalidNumPapers, n)
	}
	return nil
}

func runSummarise(cmd *cobra.Command, args []string) error {
	maxParagraphs := viper.GetInt("max-paragraphs")
	if err := validateMaxParagraphs(maxParagraphs); err != nil {
		log.Error().Int("max_paragraphs", maxParagraphs).Msg("max paragraphs must be greater than 3")
		return err
	}
	numPapers := viper.GetInt("num-papers")
	if err := validateNumPapers(numPapers); err != nil {
		log.Error().Int("num_papers", numPapers).Msg("num papers must be at least 1")
		return err
	}

	gene, _ := cmd.Flags().GetString("gene")
	species, _ := cmd.Flags().GetString("species")
	query := types.Query{Gene: gene, Species: species}
	outputDir := viper.GetString("output-dir")
	if _, err := report.Path(outputDir, query); err != nil {
		return err
	}

	creds, err := resolveCredentials()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	httpCfg := httpConfig(viper.GetDuration("timeout"))
	client := &http.Client{Timeout: httpCfg.Timeout}

	out, err := search.Search(ctx, &search.GoogleBackend{Client: client}, query, types.SearchConfig{
		HTTPConfig: httpCfg,
		APIKey:     creds.GoogleAPIKey,
		EngineID:   creds.GoogleEngineID,
	})
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	fetcher := &fetch.Fetcher{Client: client, Config: types.FetchConfig{HTTPConfig: httpCfg}}
	corpus := fetcher.FetchAll(ctx, out.Results, numPapers)
	log.Info().Int("documents", len(corpus)).Msg("corpus ready")

	backend, err := selectBackend(backendOptions{
		UseChat:       viper.GetBool("use-open-api"),
		MaxParagraphs: maxParagraphs,
		Chat:          types.ChatConfig{Model: viper.GetString("model"), MaxParagraphs: maxParagraphs},
		Cluster:       clusterConfig(),
	}, creds)
	if err != nil {
		return err
	}
	log.Info().Str("backend", backend.Name()).Msg("summarising")

	text, err := writeSummary(ctx, backend, corpus, query, outputDir)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

// writeSummary runs backend over corpus and writes the answer to the query's
// output file in dir. Nothing is written when summarising fails.
func writeSummary(ctx context.Context, backend summarise.Backend, corpus types.Corpus, query types.Query, dir string) (string, error) {
	path, err := report.Path(dir, query)
	if err != nil {
		return "", err
	}

	text, err := backend.Summarise(ctx, corpus, query)
	if err != nil {
		return "", err
	}

	if err := report.Write(path, text); err != nil {
		return "", err
	}
	log.Info().Str("file", path).Msg("summary written")
	return text, nil
}

func clusterConfig() types.ClusterConfig {
	cfg := types.ClusterConfig{
		HTTPConfig:  types.HTTPConfig{Timeout: viper.GetDuration("service-timeout"), UserAgent: defaultUserAgent},
		Temperature: viper.GetFloat64("temperature"),
		MaxLength:   viper.GetInt("max-length"),
		MinLength:   viper.GetInt("min-length"),
		Threshold:   viper.GetFloat64("threshold"),
	}
	if viper.IsSet("do-sample") {
		v := viper.GetBool("do-sample")
		cfg.DoSample = &v
	}
	return cfg
}

type backendOptions struct {
	UseChat       bool
	MaxParagraphs int
	Chat          types.ChatConfig
	Cluster       types.ClusterConfig
}

// selectBackend prefers the chat backend when it was asked for and a key is
// available, and falls back to the summarisation service otherwise.
func selectBackend(opts backendOptions, creds types.Credentials) (summarise.Backend, error) {
	if opts.UseChat && creds.OpenAIAPIKey != "" {
		cfg := opts.Chat
		cfg.APIKey = creds.OpenAIAPIKey
		chat, err := summarise.NewOpenAIChat(cfg)
		if err != nil {
			return nil, err
		}
		return &summarise.ChatBackend{Chat: chat, MaxParagraphs: opts.MaxParagraphs}, nil
	}
	if opts.UseChat {
		log.Warn().Msg("--use-open-api given but OPENAI_API_KEY is not set, using the summarisation service")
	}

	cfg := opts.Cluster
	cfg.BaseURL = creds.ClusterAPIURL
	return &summarise.ClusterBackend{
		Client: &summarise.ClusterClient{
			BaseURL: cfg.BaseURL,
			Client:  &http.Client{Timeout: cfg.Timeout},
		},
		Config: cfg,
	}, nil
}
