package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "genesearch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Credentials holds the external service keys and endpoints for one run.
// Values are resolved once at startup and passed explicitly to each stage.
type Credentials struct {
	GoogleAPIKey   string `json:"google_api_key" yaml:"google_api_key"`
	GoogleEngineID string `json:"google_engine_id" yaml:"google_engine_id"`
	OpenAIAPIKey   string `json:"openai_api_key" yaml:"openai_api_key"`
	ClusterAPIURL  string `json:"cluster_api_url" yaml:"cluster_api_url"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey and EngineID authenticate against the custom search API.
	APIKey   string `json:"-" yaml:"-"`
	EngineID string `json:"-" yaml:"-"`

	// MaxResults is the number of results to request (1-10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// FetchConfig holds settings for the download stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxBytes caps how much of a response body is read (default 10 MiB).
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes"`

	// MinParagraphChars drops extracted paragraphs shorter than this
	// (navigation crumbs, captions). Default 40.
	MinParagraphChars int `json:"min_paragraph_chars" yaml:"min_paragraph_chars"`
}

// ChatConfig holds settings for the conversational summarisation backend.
type ChatConfig struct {
	// Model is the chat model identifier (default "gpt-3.5-turbo").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the chat completion API.
	APIKey string `json:"-" yaml:"-"`

	// BaseURL overrides the chat completion endpoint, mostly for tests and
	// compatible self-hosted gateways.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxParagraphs caps the number of items summarised per reduction round.
	MaxParagraphs int `json:"max_paragraphs" yaml:"max_paragraphs"`
}

// ClusterConfig holds settings for the batch summarisation service.
type ClusterConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the service root; requests go to BaseURL + "/summarise".
	BaseURL string `json:"base_url" yaml:"base_url"`

	Temperature float64 `json:"temperature" yaml:"temperature"`
	MaxLength   int     `json:"max_length" yaml:"max_length"`
	MinLength   int     `json:"min_length" yaml:"min_length"`

	// DoSample is sent as null when unset so the service picks its default.
	DoSample *bool `json:"do_sample" yaml:"do_sample"`

	// Threshold is the minimum query similarity a summary needs to survive.
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// DefaultClusterConfig returns the generation parameters the batch service
// is normally driven with.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		Temperature: 0.2,
		MaxLength:   150,
		MinLength:   100,
		Threshold:   0.0,
	}
}
