package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gwi.com/calorie-chat/internal/store"
)

const (
	ledgerKey = "calorieData"
	goalKey   = "userGoal"
)

// Repository loads and saves the ledger and the goal as whole values.
type Repository interface {
	LoadLedger(ctx context.Context) (Records, error)
	SaveLedger(ctx context.Context, records Records) error
	// LoadGoal returns nil when no goal has been saved.
	LoadGoal(ctx context.Context) (*UserGoal, error)
	SaveGoal(ctx context.Context, goal UserGoal) error
}

// MalformedStorageError is a stored blob that could not be decoded.
type MalformedStorageError struct {
	Key string
	Err error
}

func (e *MalformedStorageError) Error() string {
	return fmt.Sprintf("malformed value stored under %q: %v", e.Key, e.Err)
}

func (e *MalformedStorageError) Unwrap() error { return e.Err }

// KVRepository stores each value as one JSON blob in a key-value store.
// Malformed blobs are logged and read as absent.
type KVRepository struct {
	kv store.KeyValue
}

func NewKVRepository(kv store.KeyValue) *KVRepository {
	return &KVRepository{kv: kv}
}

func (r *KVRepository) LoadLedger(ctx context.Context) (Records, error) {
	raw, ok, err := r.kv.Get(ctx, ledgerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	if !ok {
		return Records{}, nil
	}
	records, err := decodeLedger(raw)
	if err != nil {
		log.Printf("Warning: %v. Treating ledger as empty.", err)
		return Records{}, nil
	}
	return records, nil
}

func (r *KVRepository) SaveLedger(ctx context.Context, records Records) error {
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	if err := r.kv.Set(ctx, ledgerKey, string(b)); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

func (r *KVRepository) LoadGoal(ctx context.Context) (*UserGoal, error) {
	raw, ok, err := r.kv.Get(ctx, goalKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}
	if !ok {
		return nil, nil
	}
	goal, err := decodeGoal(raw)
	if err != nil {
		log.Printf("Warning: %v. Treating goal as unset.", err)
		return nil, nil
	}
	return goal, nil
}

func (r *KVRepository) SaveGoal(ctx context.Context, goal UserGoal) error {
	b, err := json.Marshal(goal)
	if err != nil {
		return fmt.Errorf("failed to encode goal: %w", err)
	}
	if err := r.kv.Set(ctx, goalKey, string(b)); err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return nil
}

func decodeLedger(raw string) (Records, error) {
	var records Records
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, &MalformedStorageError{Key: ledgerKey, Err: err}
	}
	if records == nil {
		// "null" decodes without error
		records = Records{}
	}
	return records, nil
}

func decodeGoal(raw string) (*UserGoal, error) {
	var goal *UserGoal
	if err := json.Unmarshal([]byte(raw), &goal); err != nil {
		return nil, &MalformedStorageError{Key: goalKey, Err: err}
	}
	if goal != nil && goal.DailyCalorieTarget <= 0 {
		return nil, &MalformedStorageError{Key: goalKey, Err: errors.New("daily calorie target must be positive")}
	}
	return goal, nil
}
