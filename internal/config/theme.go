package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/derailed/tcell/v2"
	"gopkg.in/yaml.v3"
)

// Color represents a color in the application
type Color string

const (
	// DefaultColor represents a default color
	DefaultColor Color = "default"
)

// Color returns a view color
func (c Color) Color() tcell.Color {
	if c == DefaultColor || c == "" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(string(c)).TrueColor()
}

// ChatColors defines colors for the chat view
type ChatColors struct {
	UserColor      Color `yaml:"userColor"`
	AssistantColor Color `yaml:"assistantColor"`
	TimestampColor Color `yaml:"timestampColor"`
}

// SidebarColors defines colors for the thread sidebar
type SidebarColors struct {
	TitleColor   Color `yaml:"titleColor"`
	PreviewColor Color `yaml:"previewColor"`
	ActiveColor  Color `yaml:"activeColor"`
}

// StatusColors defines colors for account status badges
type StatusColors struct {
	ConnectedColor Color `yaml:"connectedColor"`
	ErrorColor     Color `yaml:"errorColor"`
	SyncingColor   Color `yaml:"syncingColor"`
}

// ThemeConfig defines the color palette for the TUI
type ThemeConfig struct {
	Name    string        `yaml:"name"`
	Chat    ChatColors    `yaml:"chat"`
	Sidebar SidebarColors `yaml:"sidebar"`
	Status  StatusColors  `yaml:"status"`
}

// DefaultTheme returns the built-in dark theme
func DefaultTheme() *ThemeConfig {
	return &ThemeConfig{
		Name: "mindvault-dark",
		Chat: ChatColors{
			UserColor:      "#8be9fd",
			AssistantColor: "#bd93f9",
			TimestampColor: "#6272a4",
		},
		Sidebar: SidebarColors{
			TitleColor:   "#f8f8f2",
			PreviewColor: "#6272a4",
			ActiveColor:  "#50fa7b",
		},
		Status: StatusColors{
			ConnectedColor: "#50fa7b",
			ErrorColor:     "#ff5555",
			SyncingColor:   "#f1fa8c",
		},
	}
}

// ThemeLoader handles loading themes from the themes directory
type ThemeLoader struct {
	themesDir string
}

// NewThemeLoader creates a new theme loader
func NewThemeLoader(themesDir string) *ThemeLoader {
	return &ThemeLoader{themesDir: themesDir}
}

// LoadTheme resolves a theme by name or file, falling back to the default
func (tl *ThemeLoader) LoadTheme(name string) *ThemeConfig {
	if strings.TrimSpace(name) == "" || name == "mindvault-dark" {
		return DefaultTheme()
	}

	filename := name
	if !strings.HasSuffix(filename, ".yaml") && !strings.HasSuffix(filename, ".yml") {
		filename += ".yaml"
	}

	theme, err := tl.LoadThemeFromFile(filename)
	if err != nil {
		return DefaultTheme()
	}
	return theme
}

// LoadThemeFromFile loads a theme from a YAML file
func (tl *ThemeLoader) LoadThemeFromFile(filename string) (*ThemeConfig, error) {
	path := filepath.Join(tl.themesDir, filename)
	if !fileExists(path) {
		path = filename
		if !fileExists(path) {
			return nil, fmt.Errorf("theme file not found: %s", filename)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var theme struct {
		MindVault *ThemeConfig `yaml:"mindvault"`
	}

	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	if theme.MindVault == nil {
		return nil, fmt.Errorf("invalid theme file: missing mindvault section")
	}

	return theme.MindVault, nil
}

// ListAvailableThemes returns the theme files under the themes directory
func (tl *ThemeLoader) ListAvailableThemes() ([]string, error) {
	entries, err := os.ReadDir(tl.themesDir)
	if err != nil {
		return nil, err
	}

	var themes []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			themes = append(themes, name)
		}
	}
	return themes, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
