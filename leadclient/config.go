package leadclient

import (
	"strconv"
	"strings"
	"time"
)

// Config 是从 properties 文件中读出来的配置，key 都是小写的，用 . 分隔
type Config struct {
	values map[string]string
}

func NewConfigWith(values map[string]string) *Config {
	copyed := make(map[string]string, len(values))
	for key, value := range values {
		copyed[key] = value
	}
	return &Config{values: copyed}
}

func (cfg *Config) Get(key string) (string, bool) {
	if cfg == nil {
		return "", false
	}
	s, ok := cfg.values[key]
	return s, ok
}

func (cfg *Config) Set(key, value string) {
	cfg.values[key] = value
}

func (cfg *Config) StringWithDefault(key, defaultValue string) string {
	s, ok := cfg.Get(key)
	if !ok || s == "" {
		return defaultValue
	}
	return s
}

func (cfg *Config) IntWithDefault(key string, defaultValue int) int {
	s, ok := cfg.Get(key)
	if !ok || s == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}
	return i
}

func (cfg *Config) Int64WithDefault(key string, defaultValue int64) int64 {
	s, ok := cfg.Get(key)
	if !ok || s == "" {
		return defaultValue
	}
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return defaultValue
	}
	return i
}

func (cfg *Config) BoolWithDefault(key string, defaultValue bool) bool {
	s, ok := cfg.Get(key)
	if !ok || s == "" {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1", "enabled":
		return true
	case "false", "off", "no", "0", "disabled":
		return false
	}
	return defaultValue
}

func (cfg *Config) DurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	s, ok := cfg.Get(key)
	if !ok || s == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}
	return d
}

// StringsWithDefault 值用逗号分隔
func (cfg *Config) StringsWithDefault(key string, defaultValue []string) []string {
	s, ok := cfg.Get(key)
	if !ok || strings.TrimSpace(s) == "" {
		return defaultValue
	}
	var results []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			results = append(results, v)
		}
	}
	return results
}
