// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarise

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/genesearch/internal/httputil"
)

// clusterPath is appended to the service base URL.
const clusterPath = "/summarise"

// ClusterRequest is the body POSTed to the batch summarisation service.
type ClusterRequest struct {
	Query       string   `json:"query"`
	Texts       []string `json:"texts"`
	Temperature float64  `json:"temperature"`
	MaxLength   int      `json:"max_length"`
	MinLength   int      `json:"min_length"`
	DoSample    *bool    `json:"do_sample"`
}

// ClusterRecord is one element of the service response, one per input text.
type ClusterRecord struct {
	Text                 string  `json:"text"`
	Summary              string  `json:"summary"`
	QuerySimilarityScore float64 `json:"query_similarity_score"`
}

// ClusterClient talks to the batch summarisation service.
type ClusterClient struct {
	BaseURL string
	Client  *http.Client
}

// Summarise sends one batch request. Any non-2xx status is returned as a
// *httputil.StatusError; nothing is retried.
func (c *ClusterClient) Summarise(ctx context.Context, req ClusterRequest) ([]ClusterRecord, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("missing summarisation service URL (set CLUSTER_API_URL)")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := strings.TrimSuffix(c.BaseURL, "/") + clusterPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling summarisation service: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus("summarisation service", resp); err != nil {
		return nil, err
	}

	var records []ClusterRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding summarisation response: %w", err)
	}
	return records, nil
}
