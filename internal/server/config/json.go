package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/teaisforme/teataster/internal/flagx"
	"github.com/teaisforme/teataster/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify lifetimes either as strings like "24h"
// or as integer nanoseconds.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; without them no JSON is loaded.
// Fields absent from the file keep their current values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddr != "" {
		cfg.EndpointAddr = jc.EndpointAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.TokenValidityDuration.Duration != 0 {
		cfg.TokenValidityDuration = time.Duration(jc.TokenValidityDuration.Duration)
	}
}
