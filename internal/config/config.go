// Package config reads and writes the session file. The file holds exactly
// two keys: the database connection string and the currently active user.
// Every command re-reads it at startup; nothing is cached across invocations.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const fileName = ".gatorconfig.json"

type Config struct {
	DBURL           string `json:"db_url"`
	CurrentUserName string `json:"current_user_name"`
}

// Read loads the session file from the user's home directory. A file that is
// missing, holds unrecognized keys, or lacks db_url is a fatal configuration
// error. An empty current_user_name just means nobody is logged in.
func Read() (Config, error) {
	path, err := filePath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("invalid config file %s: db_url is required", path)
	}
	return cfg, nil
}

// SetUser stores name as the active user and rewrites the session file.
func (c Config) SetUser(name string) error {
	c.CurrentUserName = name
	return write(c)
}

func write(cfg Config) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func filePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, fileName), nil
}
