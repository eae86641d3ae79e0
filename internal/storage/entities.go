package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandeepkv93/studytime/internal/model"
)

const (
	// SchemaVersion is the only persisted version the loader accepts.
	SchemaVersion = 1
	// StorageKey names the persisted collection in key/value backends.
	StorageKey = "app.tasks"
)

// PersistedState is the on-disk shape of the local collection.
type PersistedState struct {
	V     int          `json:"v"`
	Tasks []model.Task `json:"tasks"`
}

type TaskListFilter struct {
	Completed *bool
	Limit     int
	Offset    int
}

func EncodeState(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	payload, err := json.MarshalIndent(PersistedState{V: SchemaVersion, Tasks: tasks}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return append(payload, '\n'), nil
}

// DecodeState reads a persisted collection. A blank payload yields an empty
// collection with no error; an unknown version or malformed JSON yields an
// empty collection and the reason, which callers log and otherwise ignore.
// Duplicate or blank ids are dropped, keeping the first occurrence.
func DecodeState(raw []byte) ([]model.Task, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return []model.Task{}, nil
	}
	var state PersistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return []model.Task{}, fmt.Errorf("decode state: %w", err)
	}
	if state.V != SchemaVersion {
		return []model.Task{}, fmt.Errorf("decode state: unsupported version %d", state.V)
	}
	seen := make(map[string]bool, len(state.Tasks))
	out := make([]model.Task, 0, len(state.Tasks))
	for _, t := range state.Tasks {
		if strings.TrimSpace(t.ID) == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}
