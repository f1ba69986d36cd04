package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// GetSettings reads settings from the store, falling back to defaults for
// a fresh store. Fields missing from an older stored document keep their
// default values.
func GetSettings(ctx context.Context, kv KV) (models.Settings, error) {
	settings := models.DefaultSettings()

	raw, found, err := kv.GetItem(ctx, constants.KeySettings)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	if !found {
		return settings, nil
	}
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

// SaveSettings validates and stores settings.
func SaveSettings(ctx context.Context, kv KV, settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := kv.SetItem(ctx, constants.KeySettings, string(data)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// GetJSON decodes the JSON item stored at key into v. It reports whether the key existed.
func GetJSON(ctx context.Context, kv KV, key string, v any) (bool, error) {
	raw, found, err := kv.GetItem(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return kv.SetItem(ctx, key, string(data))
}
