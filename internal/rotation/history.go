package rotation

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// HistoryLog is the capped rotation audit file. The supervisor is its only
// writer; the mutex guards against the control API reading mid-rewrite
// through the same process. The file itself is replaced atomically, so
// out-of-process readers never see a torn document.
type HistoryLog struct {
	mu        sync.Mutex
	path      string
	retention int
}

// NewHistoryLog returns a log writing to path, keeping at most retention
// entries (oldest dropped first).
func NewHistoryLog(path string, retention int) *HistoryLog {
	if retention <= 0 {
		retention = 1
	}
	return &HistoryLog{path: path, retention: retention}
}

// Append records a completed rotation. A missing or corrupt file is reset
// to an empty array rather than blocking future appends.
func (h *HistoryLog) Append(creds *Credentials, reason string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := RotationHistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Interface: creds.Interface,
		SSID:      creds.SSID,
		Reason:    reason,
		CreatedAt: creds.CreatedAt,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(h.path)
	if err != nil || !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsArray() {
		if err == nil {
			log.WithField("path", h.path).Warn("rotation history corrupt, resetting")
		}
		data = []byte("[]")
	}

	data, err = sjson.SetRawBytes(data, "-1", raw)
	if err != nil {
		return err
	}
	data = h.trim(data)

	return writeFileAtomic(h.path, data, 0o600)
}

// trim drops the oldest entries until the array fits the retention cap.
func (h *HistoryLog) trim(data []byte) []byte {
	entries := gjson.ParseBytes(data).Array()
	if len(entries) <= h.retention {
		return data
	}
	out := []byte("[]")
	var err error
	for _, entry := range entries[len(entries)-h.retention:] {
		out, err = sjson.SetRawBytes(out, "-1", []byte(entry.Raw))
		if err != nil {
			return data
		}
	}
	return out
}

// Entries returns the recorded history, newest last. A missing file yields
// an empty slice.
func (h *HistoryLog) Entries() ([]RotationHistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RotationHistoryEntry{}, nil
		}
		return nil, err
	}
	var entries []RotationHistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
