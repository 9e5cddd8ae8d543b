package store

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"planhelper/pkg/models"
)

// ConfigStore handles configuration persistence as a YAML file under
// the user config directory
type ConfigStore struct {
	path string
}

// NewConfigStore creates a store at the default config path
func NewConfigStore() *ConfigStore {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return &ConfigStore{path: filepath.Join(dir, "planhelper", "config.yaml")}
}

// Load reads the config file, falling back to defaults when the file is
// missing or unreadable
func (cs *ConfigStore) Load() *models.Config {
	config := models.DefaultConfig()

	data, err := os.ReadFile(cs.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Failed to read config %s: %v", cs.path, err)
		}
		return config
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		log.Printf("Failed to parse config %s: %v", cs.path, err)
		return models.DefaultConfig()
	}

	config.Normalize()
	return config
}

// Save writes the config file, creating the directory on first run
func (cs *ConfigStore) Save(config *models.Config) error {
	if err := os.MkdirAll(filepath.Dir(cs.path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(cs.path, data, 0o600)
}
