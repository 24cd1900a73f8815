package config

import (
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/mhdinshadk/Chat-Bot/internal/models"
)

// setters maps config keys to parse-and-assign functions
var setters = map[string]func(*Config, string) error{
	"provider": func(c *Config, v string) error {
		if !slices.Contains(AvailableProviders(), v) {
			return fmt.Errorf("unknown provider %q", v)
		}
		c.Provider = models.Provider(v)
		return nil
	},
	"model":    func(c *Config, v string) error { c.Model = v; return nil },
	"base_url": func(c *Config, v string) error { c.BaseURL = v; return nil },
	"timeout_seconds": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive integer")
		}
		c.TimeoutSeconds = n
		return nil
	},
	"verbose":           boolSetter(func(c *Config) *bool { return &c.Verbose }),
	"copy_to_clipboard": boolSetter(func(c *Config) *bool { return &c.CopyToClipboard }),
	"tui_theme":         func(c *Config, v string) error { c.TUITheme = v; return nil },
	"markdown.style":    func(c *Config, v string) error { c.Markdown.Style = v; return nil },
	"markdown.enable_emoji": boolSetter(func(c *Config) *bool {
		return &c.Markdown.EnableEmoji
	}),
	"markdown.preserve_newlines": boolSetter(func(c *Config) *bool {
		return &c.Markdown.PreserveNewLines
	}),
	"markdown.table_wrap": boolSetter(func(c *Config) *bool {
		return &c.Markdown.TableWrap
	}),
	"markdown.inline_table_links": boolSetter(func(c *Config) *bool {
		return &c.Markdown.InlineTableLinks
	}),
	"log.level": func(c *Config, v string) error { c.Log.Level = v; return nil },
	"log.file":  func(c *Config, v string) error { c.Log.File = v; return nil },
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", v)
		}
		*field(c) = b
		return nil
	}
}

// SetValue assigns a dotted key on cfg from its string form
func SetValue(cfg *Config, key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := set(cfg, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// Keys returns the settable config keys, sorted
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
