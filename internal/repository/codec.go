package repository

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/spec-kit/ticket-desk/internal/persistence"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Keys under which collections are persisted.
const (
	keyTickets        = "tickets"
	keyUsers          = "users"
	keySession        = "session"
	keySettingsPrefix = "settings:"
)

// loadJSON decodes the value at key into out. It reports false when the key is absent.
func loadJSON(ctx context.Context, kv persistence.KeyValueStore, key string, out any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.UnmarshalFromString(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func saveJSON(ctx context.Context, kv persistence.KeyValueStore, key string, in any) error {
	raw, err := json.MarshalToString(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
