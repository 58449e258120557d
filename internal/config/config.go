package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// IdentityConfig holds identity provider settings
type IdentityConfig struct {
	// Endpoint of the identity API; empty enables the local dev provider
	Endpoint string `json:"endpoint"`
	Timeout  string `json:"timeout"`
}

// LLMConfig holds all LLM-related configuration
type LLMConfig struct {
	Enabled  bool   `json:"enabled"`
	Provider string `json:"provider"` // ollama, bedrock
	Model    string `json:"model"`
	Endpoint string `json:"endpoint"`
	Region   string `json:"region"` // For AWS Bedrock
	Timeout  string `json:"timeout"`

	// Template file paths (relative to config dir or absolute)
	ReplyTemplate string `json:"reply_template"`
	TitleTemplate string `json:"title_template"`

	// Inline prompt overrides (optional - used when the template file is absent)
	ReplyPrompt string `json:"reply_prompt,omitempty"`
	TitlePrompt string `json:"title_prompt,omitempty"`
}

// GmailConfig holds the OAuth client settings for the Gmail connector
type GmailConfig struct {
	Credentials string `json:"credentials"`
	Token       string `json:"token"`
}

// StorageConfig controls local persistence
type StorageConfig struct {
	// Path of the SQLite database; empty uses the default data dir.
	// "memory" keeps everything in process memory with seeded demo data.
	Path string `json:"path"`
}

// KeyBindings defines keyboard shortcuts for the TUI
type KeyBindings struct {
	NewChat      string `json:"new_chat"`
	Search       string `json:"search"`
	Rename       string `json:"rename"`
	Delete       string `json:"delete"`
	Settings     string `json:"settings"`
	Profile      string `json:"profile"`
	Attach       string `json:"attach"`
	CopyMessage  string `json:"copy_message"`
	LikeMessage  string `json:"like_message"`
	Dislike      string `json:"dislike"`
	Logout       string `json:"logout"`
	Quit         string `json:"quit"`
	Help         string `json:"help"`
	FocusSidebar string `json:"focus_sidebar"`
	FocusCompose string `json:"focus_compose"`
}

// Config holds all configuration for the MindVault application
type Config struct {
	Identity IdentityConfig `json:"identity"`
	LLM      LLMConfig      `json:"llm"`
	Gmail    GmailConfig    `json:"gmail"`
	Storage  StorageConfig  `json:"storage"`
	Keys     KeyBindings    `json:"keys"`

	// Theme name or YAML file under the themes directory
	Theme string `json:"theme"`

	// Logging
	LogFile string `json:"log_file"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Identity: IdentityConfig{
			Endpoint: "",
			Timeout:  "10s",
		},
		LLM:     DefaultLLMConfig(),
		Gmail:   GmailConfig{},
		Storage: StorageConfig{Path: ""},
		Keys:    DefaultKeyBindings(),
		Theme:   "mindvault-dark",
		LogFile: "",
	}
}

// DefaultLLMConfig returns default LLM configuration
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Enabled:       true,
		Provider:      "ollama",
		Model:         "llama3.2:latest",
		Endpoint:      "http://localhost:11434/api/generate",
		Timeout:       "30s",
		ReplyTemplate: "templates/ai/reply.md",
		TitleTemplate: "templates/ai/title.md",
	}
}

// DefaultKeyBindings returns default keyboard shortcuts
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		NewChat:      "n",
		Search:       "/",
		Rename:       "r",
		Delete:       "d",
		Settings:     ",",
		Profile:      "P",
		Attach:       "a",
		CopyMessage:  "y",
		LikeMessage:  "+",
		Dislike:      "-",
		Logout:       "Q",
		Quit:         "q",
		Help:         "?",
		FocusSidebar: "ctrl+s",
		FocusCompose: "ctrl+e",
	}
}

// LoadConfig loads configuration from file, falling back to defaults
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mindvault", "config.json")
}

// DefaultCredentialPaths returns the default paths for Gmail credentials and token
func DefaultCredentialPaths() (string, string) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}

	configDir := filepath.Join(home, ".config", "mindvault")
	return filepath.Join(configDir, "credentials.json"), filepath.Join(configDir, "token.json")
}

// DefaultDataDir returns the default local data directory path
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mindvault", "data")
}

// DefaultThemesDir returns the default themes directory path
func DefaultThemesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mindvault", "themes")
}

// GetIdentityTimeout returns the parsed identity provider timeout
func (c *Config) GetIdentityTimeout() time.Duration {
	if c.Identity.Timeout != "" {
		if d, err := time.ParseDuration(c.Identity.Timeout); err == nil {
			return d
		}
	}
	return 10 * time.Second
}

// GetLLMTimeout returns the parsed timeout for LLM requests
func (c *Config) GetLLMTimeout() time.Duration {
	if c.LLM.Timeout != "" {
		if d, err := time.ParseDuration(c.LLM.Timeout); err == nil {
			return d
		}
	}
	return 30 * time.Second
}

// LoadTemplate loads a prompt with priority: file first, then inline, then fallback
func LoadTemplate(templatePath, inlinePrompt, fallbackPrompt string) string {
	if strings.TrimSpace(templatePath) != "" {
		var fullPath string
		if filepath.IsAbs(templatePath) {
			fullPath = templatePath
		} else {
			configDir := filepath.Dir(DefaultConfigPath())
			fullPath = filepath.Join(configDir, templatePath)
		}

		if content, err := os.ReadFile(fullPath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if strings.TrimSpace(inlinePrompt) != "" {
		return inlinePrompt
	}

	return fallbackPrompt
}

// GetReplyPrompt returns the reply prompt, loading from template file if needed
func (c *LLMConfig) GetReplyPrompt() string {
	fallback := "You are MindVault, a helpful productivity assistant. Continue the conversation below with a concise, useful reply. Answer the last user message directly.\n\n{{history}}"
	return LoadTemplate(c.ReplyTemplate, c.ReplyPrompt, fallback)
}

// GetTitlePrompt returns the title prompt, loading from template file if needed
func (c *LLMConfig) GetTitlePrompt() string {
	fallback := "Write a short title (5 words maximum) for a conversation that starts with the following message. Return only the title, nothing else.\n\n{{body}}"
	return LoadTemplate(c.TitleTemplate, c.TitlePrompt, fallback)
}
