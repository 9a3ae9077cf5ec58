// Package config loads the two configuration shapes an MCP SDK deployment
// needs: ServerConfig for a provider process (YAML), and ClientProfile for a
// host that dials one or more named servers (INI, one section per server).
package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// DefaultServerConfigPath is the conventional location for a provider's
// config file.
const DefaultServerConfigPath = "/etc/go-mcp-sdk/server.yml"

// ServerConfig is the YAML configuration file structure for an MCP provider
// process. Every field is a pointer: unset fields stay nil so CLI flags and
// environment variables (applied afterwards, see ApplyTo) always win over
// whatever a file value "would have been" at its zero value.
type ServerConfig struct {
	Port             *int    `yaml:"port,omitempty"`
	LogLevel         *string `yaml:"log_level,omitempty"`
	LogsDir          *string `yaml:"logs_dir,omitempty"`
	Debug            *bool   `yaml:"debug,omitempty"`
	CORSOrigin       *string `yaml:"cors_origin,omitempty"`
	SchemaPath       *string `yaml:"schema_path,omitempty"`
	MetricsEnabled   *bool   `yaml:"metrics_enabled,omitempty"`
	SwaggerEnabled   *bool   `yaml:"swagger_enabled,omitempty"`
	OutboxSize       *int    `yaml:"outbox_size,omitempty"`
	WantToolsChanged *bool   `yaml:"advertise_tools_list_changed,omitempty"`
}

// LoadServerConfig reads and parses a YAML config file. It returns nil
// without error if the file does not exist, the same "absent config is not
// an error" contract the teacher's LoadConfigFile uses.
func LoadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading server config file: %w", err)
	}
	var cfg ServerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing server config file: %w", err)
	}
	return &cfg, nil
}

// ServerSettings are the already-resolved settings a provider runs with,
// after file, environment, and CLI flag layers have all been merged.
type ServerSettings struct {
	Port             int
	LogLevel         string
	LogsDir          string
	Debug            bool
	CORSOrigin       string
	SchemaPath       string
	MetricsEnabled   bool
	SwaggerEnabled   bool
	OutboxSize       int
	WantToolsChanged bool
}

// DefaultServerSettings returns the struct-default layer, the bottom of the
// CLI flag > env var > config file > struct default precedence chain.
func DefaultServerSettings() ServerSettings {
	return ServerSettings{
		Port:           8090,
		LogLevel:       "info",
		LogsDir:        "/var/log/go-mcp-sdk",
		CORSOrigin:     "*",
		SchemaPath:     "",
		MetricsEnabled: true,
		SwaggerEnabled: true,
		OutboxSize:     32,
	}
}

// ApplyTo merges any set fields in cfg onto settings, leaving fields cfg
// left unset untouched so the value already in settings (typically the
// struct default) survives.
func (cfg *ServerConfig) ApplyTo(settings *ServerSettings) {
	if cfg == nil {
		return
	}
	if cfg.Port != nil {
		settings.Port = *cfg.Port
	}
	if cfg.LogLevel != nil {
		settings.LogLevel = *cfg.LogLevel
	}
	if cfg.LogsDir != nil {
		settings.LogsDir = *cfg.LogsDir
	}
	if cfg.Debug != nil {
		settings.Debug = *cfg.Debug
	}
	if cfg.CORSOrigin != nil {
		settings.CORSOrigin = *cfg.CORSOrigin
	}
	if cfg.SchemaPath != nil {
		settings.SchemaPath = *cfg.SchemaPath
	}
	if cfg.MetricsEnabled != nil {
		settings.MetricsEnabled = *cfg.MetricsEnabled
	}
	if cfg.SwaggerEnabled != nil {
		settings.SwaggerEnabled = *cfg.SwaggerEnabled
	}
	if cfg.OutboxSize != nil {
		settings.OutboxSize = *cfg.OutboxSize
	}
	if cfg.WantToolsChanged != nil {
		settings.WantToolsChanged = *cfg.WantToolsChanged
	}
}
