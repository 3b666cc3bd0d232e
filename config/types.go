package config

const (
	SettingsFileEnvVar  = "RSCRIBD_CONFIG"
	DefaultSettingsPath = "~/.rscribd/config.yaml"

	DefaultBaseURL   = "https://api.scribd.com/api"
	DefaultTimeout   = "30s"
	DefaultRateLimit = 10.0

	OutputFormatYAML = "yaml"
	OutputFormatJSON = "json"
	OutputFormatText = "text"
)

type Settings struct {
	API           API      `yaml:"api"`
	Session       *Session `yaml:"session,omitempty"`
	DefaultOutput string   `yaml:"default-output,omitempty"`
}

type API struct {
	Key       string  `yaml:"key"`
	Secret    string  `yaml:"secret"`
	BaseURL   string  `yaml:"base-url,omitempty"`
	Timeout   string  `yaml:"timeout,omitempty"`
	RateLimit float64 `yaml:"rate-limit,omitempty"`
}

type Session struct {
	Key      string `yaml:"key"`
	Username string `yaml:"username,omitempty"`
	UserID   int64  `yaml:"user-id,omitempty"`
}
