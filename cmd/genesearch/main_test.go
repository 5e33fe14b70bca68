// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/genesearch/internal/report"
	"github.com/pdiddy/genesearch/internal/summarise"
	"github.com/pdiddy/genesearch/pkg/types"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"WARNING", zerolog.WarnLevel},
		{"warn", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"CRITICAL", zerolog.FatalLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseLogLevel("LOUD")
	assert.Error(t, err)
}

func TestValidateMaxParagraphs(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 2, 3} {
		assert.ErrorIs(t, validateMaxParagraphs(n), ErrInvalidMaxParagraphs, "n=%d", n)
	}
	for _, n := range []int{4, 10, 100} {
		assert.NoError(t, validateMaxParagraphs(n), "n=%d", n)
	}
}

func TestSummariseRejectsSmallParagraphCapBeforeAnyCall(t *testing.T) {
	chdir(t, t.TempDir())
	// Credentials that would point at unreachable services if reached.
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("GOOGLE_ENGINE_ID", "cx")
	t.Setenv("CLUSTER_API_URL", "http://127.0.0.1:1")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"summarise", "-g", "FLC", "-s", "Arabidopsis", "--max-paragraphs", "3"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	assert.ErrorIs(t, err, ErrInvalidMaxParagraphs)
	assert.NoFileExists(t, "FLC_Arabidopsis.txt")
}

func TestValidateNumPapers(t *testing.T) {
	for _, n := range []int{-5, -1, 0} {
		assert.ErrorIs(t, validateNumPapers(n), ErrInvalidNumPapers, "n=%d", n)
	}
	for _, n := range []int{1, 3, 10} {
		assert.NoError(t, validateNumPapers(n), "n=%d", n)
	}
}

func TestSummariseRejectsBadArgumentsBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"negative num papers", []string{"-n", "-1"}, ErrInvalidNumPapers},
		{"zero num papers", []string{"--num-papers", "0"}, ErrInvalidNumPapers},
		{"separator in species", []string{"-s", "Arabidopsis/thaliana"}, report.ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv("GOOGLE_API_KEY", "k")
			t.Setenv("GOOGLE_ENGINE_ID", "cx")
			t.Setenv("CLUSTER_API_URL", "http://127.0.0.1:1")

			// Flag values persist on the shared command, so every run sets them all.
			args := []string{"summarise", "-g", "FLC", "-s", "Arabidopsis", "--max-paragraphs", "10", "-n", "3"}
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(append(args, tt.args...))
			t.Cleanup(func() { rootCmd.SetArgs(nil) })

			err := rootCmd.Execute()
			assert.ErrorIs(t, err, tt.wantErr)
			entries, _ := os.ReadDir(".")
			assert.Empty(t, entries, "no output may be written")
		})
	}
}

// --- writeSummary ---

func clusterBackendFor(t *testing.T, records string, threshold float64) *summarise.ClusterBackend {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, records)
	}))
	t.Cleanup(ts.Close)

	cfg := types.DefaultClusterConfig()
	cfg.Threshold = threshold
	return &summarise.ClusterBackend{
		Client: &summarise.ClusterClient{BaseURL: ts.URL, Client: ts.Client()},
		Config: cfg,
	}
}

var flc = types.Query{Gene: "FLC", Species: "Arabidopsis"}

var threeDocs = types.Corpus{
	{Source: "a", Paragraphs: []string{"FLC represses flowering."}},
	{Source: "b", Paragraphs: []string{"FLC is silenced by cold."}},
	{Source: "c", Paragraphs: []string{"Unrelated text."}},
}

func TestWriteSummaryNoSurvivorsWritesNothing(t *testing.T) {
	dir := t.TempDir()
	b := clusterBackendFor(t, `[
		{"text":"a","summary":"A","query_similarity_score":0.1},
		{"text":"b","summary":"B","query_similarity_score":0.3},
		{"text":"c","summary":"C","query_similarity_score":0.2}]`, 0.5)

	_, err := writeSummary(context.Background(), b, threeDocs, flc, dir)
	assert.ErrorIs(t, err, summarise.ErrNoRelevantSummaries)
	assert.NoFileExists(t, filepath.Join(dir, "FLC_Arabidopsis.txt"))
}

func TestWriteSummaryOutputFile(t *testing.T) {
	tests := []struct {
		name    string
		records string
		want    string
	}{
		{
			name: "single survivor verbatim",
			records: `[
				{"text":"a","summary":"A","query_similarity_score":0.1},
				{"text":"b","summary":"FLC is a MADS-box repressor; \"cold\" silences it.","query_similarity_score":0.8},
				{"text":"c","summary":"C","query_similarity_score":0.2}]`,
			want: `FLC is a MADS-box repressor; "cold" silences it.`,
		},
		{
			name: "several survivors keep the last",
			records: `[
				{"text":"a","summary":"first","query_similarity_score":0.9},
				{"text":"b","summary":"last qualifying","query_similarity_score":0.6},
				{"text":"c","summary":"below","query_similarity_score":0.4}]`,
			want: "last qualifying",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			b := clusterBackendFor(t, tt.records, 0.5)

			got, err := writeSummary(context.Background(), b, threeDocs, flc, dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			path := filepath.Join(dir, "FLC_Arabidopsis.txt")
			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", string(raw))

			back, err := report.Read(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, back)
		})
	}
}

func TestWriteSummaryOverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "FLC_Arabidopsis.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale summary from an earlier run\n"), 0o644))

	b := clusterBackendFor(t, `[{"text":"a","summary":"fresh","query_similarity_score":0.9}]`, 0)
	_, err := writeSummary(context.Background(), b, threeDocs, flc, dir)
	require.NoError(t, err)

	got, err := report.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestSelectBackend(t *testing.T) {
	opts := backendOptions{
		MaxParagraphs: 10,
		Chat:          types.ChatConfig{Model: summarise.DefaultChatModel},
		Cluster:       types.DefaultClusterConfig(),
	}
	creds := types.Credentials{OpenAIAPIKey: "sk-test", ClusterAPIURL: "http://localhost:8000"}

	t.Run("cluster by default", func(t *testing.T) {
		b, err := selectBackend(opts, creds)
		require.NoError(t, err)
		cb, ok := b.(*summarise.ClusterBackend)
		require.True(t, ok)
		assert.Equal(t, "http://localhost:8000", cb.Client.BaseURL)
		assert.Equal(t, 0.2, cb.Config.Temperature)
	})

	t.Run("chat when requested with a key", func(t *testing.T) {
		o := opts
		o.UseChat = true
		b, err := selectBackend(o, creds)
		require.NoError(t, err)
		cb, ok := b.(*summarise.ChatBackend)
		require.True(t, ok)
		assert.Equal(t, 10, cb.MaxParagraphs)
	})

	t.Run("cluster when requested without a key", func(t *testing.T) {
		o := opts
		o.UseChat = true
		noKey := creds
		noKey.OpenAIAPIKey = ""
		b, err := selectBackend(o, noKey)
		require.NoError(t, err)
		assert.Equal(t, "cluster", b.Name())
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "genesearch dev\n", out.String())
}

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "genesearch dev\n", out.String())
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
