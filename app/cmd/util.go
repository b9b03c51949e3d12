package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lexcodex/asklang/framework"
)

const configFileName = "asklang.yaml"

// DefaultConfigPath resolves the config file relative to the working
// directory.
func DefaultConfigPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return configFileName
	}
	return filepath.Join(wd, configFileName)
}

// loadConfig reads the yaml config. A missing file yields defaults plus
// os.ErrNotExist so callers can treat it as optional.
func loadConfig(path string) (*framework.Config, error) {
	cfg := &framework.Config{}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(bytes, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// readConfigMap deserializes the config into a generic map for dotted lookups.
func readConfigMap(path string) (map[string]interface{}, error) {
	data := map[string]interface{}{}
	bytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// writeConfigMap persists the config map back to YAML, creating directories.
func writeConfigMap(path string, data map[string]interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	bytes, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0o644)
}

// getConfigValue traverses a nested map using dotted notation.
func getConfigValue(data map[string]interface{}, key string) (interface{}, bool) {
	parts := strings.Split(key, ".")
	var current interface{} = data
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		value, ok := m[part]
		if !ok {
			return nil, false
		}
		current = value
	}
	return current, true
}

// setConfigValue mutates/creates nested keys referenced via dotted notation.
func setConfigValue(data map[string]interface{}, key string, value interface{}) error {
	parts := strings.Split(key, ".")
	current := data
	for i, part := range parts {
		if i == len(parts)-1 {
			current[part] = value
			return nil
		}
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			current[part] = next
		}
		current = next
	}
	return nil
}

// parseValue attempts to coerce CLI input into bool/int/float before storing.
func parseValue(input string) interface{} {
	if b, err := strconv.ParseBool(input); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(input, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(input, 64); err == nil {
		return f
	}
	return input
}

// prettyValue renders nested values in a human-readable one-line format.
func prettyValue(v interface{}) string {
	switch value := v.(type) {
	case []interface{}:
		var parts []string
		for _, item := range value {
			parts = append(parts, prettyValue(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]interface{}:
		b, _ := yaml.Marshal(value)
		return strings.TrimSpace(string(b))
	default:
		return fmt.Sprint(value)
	}
}
