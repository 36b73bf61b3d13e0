package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/klaro/internal/common"
)

// SnapshotVersion is the current snapshot format.
const SnapshotVersion = 1

type snapshot struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

// MarshalSnapshot serializes the persistable part of s.
func MarshalSnapshot(s State) ([]byte, error) {
	data, err := json.Marshal(snapshot{Version: SnapshotVersion, State: s.Persistable()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes a snapshot written by MarshalSnapshot. Any decoding
// failure or unknown version wraps common.ErrSnapshotCorrupted.
func UnmarshalSnapshot(data []byte) (State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return State{}, fmt.Errorf("%w: %w", common.ErrSnapshotCorrupted, err)
	}
	if snap.Version != SnapshotVersion {
		return State{}, fmt.Errorf("%w: unsupported version %d", common.ErrSnapshotCorrupted, snap.Version)
	}
	return snap.State.Persistable(), nil
}
