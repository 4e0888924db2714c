// Package config loads gateway and catalog configuration from environment
// variables and an optional config file. Connection URIs may carry
// credentials and are never logged or exposed to tool responses.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Env var names. If set, they define the two fixed ERP connections:
// "p21" (the SQL Server order/inventory system) and "por" (the file-backed
// rental system).
const (
	EnvP21URI      = "P21_URI"
	EnvP21Server   = "P21_SERVER"
	EnvP21Database = "P21_DATABASE"
	EnvP21Username = "P21_USERNAME"
	EnvP21Password = "P21_PASSWORD"
	EnvPORPath     = "POR_PATH"
	EnvHTTPAddr    = "DASHBOARD_HTTP_ADDR"
	EnvDataDir     = "DASHBOARD_DATA_DIR"
)

// Defaults applied when neither env nor config file provides a value.
const (
	DefaultHTTPAddr = "localhost:8001"
	DefaultDataDir  = "hooks/dashboard-data"
	DefaultP21DB    = "p21"
)

// DefaultConfigDir is the directory for the optional config file.
// Config file path: ~/.dashboard-tools/config.yaml
const DefaultConfigDir = ".dashboard-tools"
const ConfigFileName = "config.yaml"

// Config holds loaded configuration. URIs are stored but never included in
// logs or tool output.
type Config struct {
	connections map[string]connectionEntry
	httpAddr    string
	dataDir     string
}

type connectionEntry struct {
	Type string // "sqlserver", "sqlite", "postgres" or "mysql"
	uri  string
}

// ConnectionInfo is safe to log or return to tools: no credentials.
type ConnectionInfo struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Load reads configuration from the environment and, if present,
// ~/.dashboard-tools/config.yaml. Env vars override file values for the
// same connection ID.
func Load() (*Config, error) {
	c := &Config{
		connections: make(map[string]connectionEntry),
		httpAddr:    DefaultHTTPAddr,
		dataDir:     DefaultDataDir,
	}

	// 1) Optional config file (base)
	configPath, err := configFilePath()
	if err != nil {
		return nil, fmt.Errorf("config path: %w", err)
	}
	if configPath != "" {
		if err := c.loadFile(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	}

	// 2) Env overrides
	if uri := p21URIFromEnv(); uri != "" {
		c.connections["p21"] = connectionEntry{Type: "sqlserver", uri: uri}
	}
	if v := os.Getenv(EnvPORPath); v != "" {
		c.connections["por"] = connectionEntry{Type: "sqlite", uri: v}
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.httpAddr = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.dataDir = v
	}

	return c, nil
}

// p21URIFromEnv returns the P21 connection URI: P21_URI directly, or a
// sqlserver URI assembled from the direct server/credential variables.
func p21URIFromEnv() string {
	if v := os.Getenv(EnvP21URI); v != "" {
		return v
	}
	server := os.Getenv(EnvP21Server)
	user := os.Getenv(EnvP21Username)
	pass := os.Getenv(EnvP21Password)
	if server == "" || user == "" || pass == "" {
		return ""
	}
	dbName := os.Getenv(EnvP21Database)
	if dbName == "" {
		dbName = DefaultP21DB
	}
	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(user, pass),
		Host:     server,
		RawQuery: url.Values{"database": {dbName}}.Encode(),
	}
	return u.String()
}

func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(home, DefaultConfigDir, ConfigFileName)
	_, err = os.Stat(p)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p, nil
}

type fileFormat struct {
	Connections map[string]fileConnection `yaml:"connections"`
	HTTP        struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	DataDir string `yaml:"data_dir"`
}

type fileConnection struct {
	Type string `yaml:"type"`
	URI  string `yaml:"uri"`
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}
	for id, conn := range f.Connections {
		if conn.URI == "" {
			continue
		}
		typ := conn.Type
		if typ == "" {
			typ = idToType(id)
		}
		if !validType(typ) {
			return fmt.Errorf("connection %q: unsupported type %q", id, typ)
		}
		c.connections[id] = connectionEntry{Type: typ, uri: conn.URI}
	}
	if f.HTTP.Addr != "" {
		c.httpAddr = f.HTTP.Addr
	}
	if f.DataDir != "" {
		c.dataDir = f.DataDir
	}
	return nil
}

func idToType(id string) string {
	switch id {
	case "por":
		return "sqlite"
	default:
		return "sqlserver"
	}
}

func validType(typ string) bool {
	switch typ {
	case "sqlserver", "sqlite", "postgres", "mysql":
		return true
	}
	return false
}

// HTTPAddr returns the listen address for the HTTP gateway.
func (c *Config) HTTPAddr() string { return c.httpAddr }

// DataDir returns the directory holding the per-group catalog files.
func (c *Config) DataDir() string { return c.dataDir }

// ConnectionIDs returns all configured connection IDs. Safe to log.
func (c *Config) ConnectionIDs() []string {
	ids := make([]string, 0, len(c.connections))
	for id := range c.connections {
		ids = append(ids, id)
	}
	return ids
}

// ConnectionInfos returns connection id and type for each connection. Safe to return from tools.
func (c *Config) ConnectionInfos() []ConnectionInfo {
	infos := make([]ConnectionInfo, 0, len(c.connections))
	for id, e := range c.connections {
		infos = append(infos, ConnectionInfo{ID: id, Type: e.Type})
	}
	return infos
}

// URI returns the connection URI for the given ID. For use only by the db layer; never log the result.
func (c *Config) URI(id string) (uri string, ok bool) {
	e, ok := c.connections[id]
	if !ok {
		return "", false
	}
	return e.uri, true
}

// Type returns the backend type for the given connection ID.
func (c *Config) Type(id string) (string, bool) {
	e, ok := c.connections[id]
	if !ok {
		return "", false
	}
	return e.Type, true
}

// HasConnection returns whether the given connection ID is configured.
func (c *Config) HasConnection(id string) bool {
	_, ok := c.connections[id]
	return ok
}
