// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API keys and service endpoints for a run.
//
// Resolution order for each value: the process environment (after loading an
// optional .env file, which never overrides variables already set), then a
// YAML credentials file, then the bundled api_keys.yaml compiled into the
// binary. Missing values are not an error here; the stage that needs a value
// reports its absence.
package secrets

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/genesearch/pkg/types"
)

// Environment variable names.
const (
	EnvGoogleAPIKey   = "GOOGLE_API_KEY"
	EnvGoogleEngineID = "GOOGLE_ENGINE_ID"
	EnvOpenAIAPIKey   = "OPENAI_API_KEY"
	EnvClusterAPIURL  = "CLUSTER_API_URL"
)

//go:embed api_keys.yaml
var bundled []byte

// Resolve loads dotenvPath (if it exists), reads credentials from the
// environment, and fills whatever is still empty from the YAML file at
// credentialsPath, or from the bundled defaults when that file is absent.
func Resolve(dotenvPath, credentialsPath string) (types.Credentials, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return types.Credentials{}, fmt.Errorf("loading %s: %w", dotenvPath, err)
		}
	}

	creds := FromEnv(os.LookupEnv)
	if len(Missing(creds)) == 0 {
		return creds, nil
	}

	fallback, err := LoadFile(credentialsPath)
	if err != nil {
		return types.Credentials{}, err
	}
	return Merge(creds, fallback), nil
}

// FromEnv reads credentials through lookup (normally os.LookupEnv).
func FromEnv(lookup func(string) (string, bool)) types.Credentials {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	return types.Credentials{
		GoogleAPIKey:   get(EnvGoogleAPIKey),
		GoogleEngineID: get(EnvGoogleEngineID),
		OpenAIAPIKey:   get(EnvOpenAIAPIKey),
		ClusterAPIURL:  get(EnvClusterAPIURL),
	}
}

// LoadFile parses a YAML credentials file. A missing or empty path falls back
// to the bundled defaults.
func LoadFile(path string) (types.Credentials, error) {
	data := bundled
	source := "bundled api_keys.yaml"
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			data, source = b, path
		case errors.Is(err, fs.ErrNotExist):
			log.Debug().Str("path", path).Msg("credentials file not found, using bundled defaults")
		default:
			return types.Credentials{}, fmt.Errorf("reading credentials file %s: %w", path, err)
		}
	}

	var creds types.Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return types.Credentials{}, fmt.Errorf("parsing %s: %w", source, err)
	}
	return creds, nil
}

// Merge returns primary with every empty field taken from fallback.
func Merge(primary, fallback types.Credentials) types.Credentials {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return types.Credentials{
		GoogleAPIKey:   pick(primary.GoogleAPIKey, fallback.GoogleAPIKey),
		GoogleEngineID: pick(primary.GoogleEngineID, fallback.GoogleEngineID),
		OpenAIAPIKey:   pick(primary.OpenAIAPIKey, fallback.OpenAIAPIKey),
		ClusterAPIURL:  pick(primary.ClusterAPIURL, fallback.ClusterAPIURL),
	}
}

// Missing lists the environment variable names whose values are empty in c.
func Missing(c types.Credentials) []string {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{EnvGoogleAPIKey, c.GoogleAPIKey},
		{EnvGoogleEngineID, c.GoogleEngineID},
		{EnvOpenAIAPIKey, c.OpenAIAPIKey},
		{EnvClusterAPIURL, c.ClusterAPIURL},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
