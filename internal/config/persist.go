package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const settingsFileName = "settings.json"

// DefaultPath returns the settings file location under the user's config
// directory, e.g. ~/.config/montagen/settings.json on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, "montagen", settingsFileName), nil
}

// Load reads settings from path. A missing file is not an error; the
// defaults are returned unchanged so first runs work without setup.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a settings document over the defaults and migrates older
// schema versions to the current one.
//
// Fields absent from the document keep their default values, and unknown
// fields are ignored, so documents from any release decode cleanly.
// A document without a schema_version field is treated as version 1.
//
// # Version 1 migration
//
// Version 1 slots carried a boolean "auto" flag instead of the "mode"
// field: auto=true meant label-driven (now "ocr") and auto=false meant
// user-entered pixels (now "manual"). A v1 slot without the flag keeps the
// default mode.
func Parse(data []byte) (*Settings, error) {
	var probe struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	version := probe.SchemaVersion
	if version == 0 {
		version = 1
	}
	if version > SchemaVersion {
		return nil, fmt.Errorf("settings schema version %d is newer than supported version %d", version, SchemaVersion)
	}

	s := Defaults()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if version < 2 {
		if err := migrateV1(data, s); err != nil {
			return nil, err
		}
	}

	s.SchemaVersion = SchemaVersion
	return s, nil
}

// migrateV1 applies the legacy per-slot "auto" flags onto the mode enum.
func migrateV1(data []byte, s *Settings) error {
	var legacy struct {
		SelfMask struct {
			Auto *bool `json:"auto"`
		} `json:"self_mask"`
		EnemyMask struct {
			Auto *bool `json:"auto"`
		} `json:"enemy_mask"`
	}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("failed to decode legacy settings: %w", err)
	}
	if legacy.SelfMask.Auto != nil {
		s.SelfMask.Mode = modeForLegacyAuto(*legacy.SelfMask.Auto)
	}
	if legacy.EnemyMask.Auto != nil {
		s.EnemyMask.Mode = modeForLegacyAuto(*legacy.EnemyMask.Auto)
	}
	return nil
}

func modeForLegacyAuto(auto bool) MaskMode {
	if auto {
		return MaskOCR
	}
	return MaskManual
}

// Save writes settings to path, creating parent directories as needed.
// The document is written at the current schema version.
func Save(path string, s *Settings) error {
	out := *s
	out.SchemaVersion = SchemaVersion

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
