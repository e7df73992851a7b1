// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DragTextType selects the markup of drag texts.
type DragTextType string

const (
	DragKirbytext DragTextType = "kirbytext"
	DragMarkdown  DragTextType = "markdown"
)

// PanelConfig holds settings that shape URLs and labels sent to the panel.
type PanelConfig struct {
	// URL is the path prefix of panel views (default "/panel").
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// API is the path prefix of the API (default "/api").
	API string `json:"api" yaml:"api" mapstructure:"api"`

	// MediaURL is the path prefix under which files are served (default "/media").
	MediaURL string `json:"media_url" yaml:"media_url" mapstructure:"media_url"`

	// Language picks translated labels from language maps (default "en").
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// DragTextType is kirbytext (default) or markdown.
	DragTextType DragTextType `json:"drag_text_type" yaml:"drag_text_type" mapstructure:"drag_text_type"`

	// Home and Error are the IDs of the home and error pages (defaults
	// "home" and "error"). Their slugs cannot be changed.
	Home  string `json:"home" yaml:"home" mapstructure:"home"`
	Error string `json:"error" yaml:"error" mapstructure:"error"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// SecretsDir holds one API token file per user (default ".secrets/").
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is a zerolog level name (default "info").
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// JSON switches from console output to JSON lines.
	JSON bool `json:"json" yaml:"json" mapstructure:"json"`
}

// Config is the application configuration loaded by viper.
type Config struct {
	// ContentDir is the root of the content tree to ingest (default "content").
	ContentDir string `json:"content_dir" yaml:"content_dir" mapstructure:"content_dir"`

	// BlueprintsDir holds site.yaml, pages/ and files/ (default "blueprints").
	BlueprintsDir string `json:"blueprints_dir" yaml:"blueprints_dir" mapstructure:"blueprints_dir"`

	// IndexDir holds the SQLite content index (default "index").
	IndexDir string `json:"index_dir" yaml:"index_dir" mapstructure:"index_dir"`

	Panel   PanelConfig   `json:"panel" yaml:"panel" mapstructure:"panel"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`

	// Roles maps a role name to its permissions, keyed "pages.read",
	// "pages.sort", "files.read", … A "*" key grants or denies everything
	// not listed.
	Roles map[string]map[string]bool `json:"roles" yaml:"roles" mapstructure:"roles"`

	// Users maps a user ID to its role.
	Users map[string]string `json:"users" yaml:"users" mapstructure:"users"`
}

// WithDefaults returns a copy of c with empty settings filled in.
func (c Config) WithDefaults() Config {
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.BlueprintsDir == "" {
		c.BlueprintsDir = "blueprints"
	}
	if c.IndexDir == "" {
		c.IndexDir = "index"
	}
	if c.Panel.URL == "" {
		c.Panel.URL = "/panel"
	}
	if c.Panel.API == "" {
		c.Panel.API = "/api"
	}
	if c.Panel.MediaURL == "" {
		c.Panel.MediaURL = "/media"
	}
	if c.Panel.Language == "" {
		c.Panel.Language = "en"
	}
	if c.Panel.DragTextType == "" {
		c.Panel.DragTextType = DragKirbytext
	}
	if c.Panel.Home == "" {
		c.Panel.Home = "home"
	}
	if c.Panel.Error == "" {
		c.Panel.Error = "error"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.SecretsDir == "" {
		c.Server.SecretsDir = ".secrets/"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Roles == nil {
		c.Roles = map[string]map[string]bool{
			RoleAdmin: {"*": true},
		}
	}
	return c
}
