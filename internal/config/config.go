// Package config resolves runtime configuration for the cmd/ entry
// points via github.com/spf13/viper, the teacher's declared config
// dependency (see DESIGN.md: the teacher's own internal/config package
// is referenced from internal/app/internal/server but absent from the
// retrieval pack, so this is rebuilt from the calling convention visible
// at its call sites). Neither qcore/dispatcher nor qcore/simulator read
// config directly, and neither does internal/apiserver; cmd/houdinis
// resolves it once and passes explicit struct fields into constructors
// (including apiserver.Options), matching the teacher's
// ServerOptions/SimulatorOptions pattern.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full set of values HOUDINIS_* environment variables or
// an optional YAML file may override.
type Config struct {
	Debug          bool
	DefaultShots   int
	DefaultSeed    uint64
	HasSeed        bool
	HTTPPort       int
	HTTPLocalOnly  bool
	CORSOrigin     string
	AwaitTimeout   time.Duration
	LocalQubits    int
	CredentialPath string
}

// defaults mirror the teacher's DefaultResourceLimits-style named
// constants (qc/benchmark/framework.go) rather than bare literals
// scattered across call sites.
var defaults = map[string]any{
	"debug":           false,
	"default_shots":   1024,
	"http_port":       8080,
	"http_local_only": true,
	"cors_origin":     "",
	"await_timeout":   "30s",
	"local_qubits":    16,
	"credential_path": "",
}

// Load binds HOUDINIS_* environment variables and an optional YAML file
// at path (pass "" to skip the file) into a Config.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HOUDINIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	awaitTimeout, err := time.ParseDuration(v.GetString("await_timeout"))
	if err != nil {
		awaitTimeout = 30 * time.Second
	}

	cfg := Config{
		Debug:          v.GetBool("debug"),
		DefaultShots:   v.GetInt("default_shots"),
		HTTPPort:       v.GetInt("http_port"),
		HTTPLocalOnly:  v.GetBool("http_local_only"),
		CORSOrigin:     v.GetString("cors_origin"),
		AwaitTimeout:   awaitTimeout,
		LocalQubits:    v.GetInt("local_qubits"),
		CredentialPath: v.GetString("credential_path"),
	}
	if v.IsSet("default_seed") {
		cfg.DefaultSeed = v.GetUint64("default_seed")
		cfg.HasSeed = true
	}
	return cfg, nil
}
