package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/teaisforme/teataster/internal/flagx"
	"github.com/teaisforme/teataster/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s" or
// as integer nanoseconds.
type JsonConfig struct {
	ServerAddr          string         `json:"server_addr"`
	DataDir             string         `json:"data_dir"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
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

	if jc.ServerAddr != "" {
		cfg.ServerAddr = jc.ServerAddr
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
}
