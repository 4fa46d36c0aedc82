package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/okarpov/turncoat/internal/model"
)

// SchemaVersion tags the persisted cache format. Bumping it discards every
// existing entry on load (forward-incompatible format protection).
const SchemaVersion = "v2"

// Fingerprint derives a content fingerprint from a subject's current raw
// item set. New activity (a new item, or a newer latest timestamp) changes
// the fingerprint and invalidates prior results.
func Fingerprint(itemCount int, latestTimestamp int64) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%d:%d", itemCount, latestTimestamp)))
	return hex.EncodeToString(hash[:8])
}

// Key builds the cache key for a subject and content fingerprint
func Key(subject, fingerprint string) string {
	return strings.ToLower(subject) + ":" + fingerprint
}

// Record is one cached analysis
type Record struct {
	Key           string        `json:"key"`
	Payload       *model.Report `json:"payload"`
	CreatedAt     time.Time     `json:"created_at"`
	ExpiresAt     time.Time     `json:"expires_at"`
	SchemaVersion string        `json:"schema_version"`
}

// Stats is the cache's aggregate statistics
type Stats struct {
	Entries int     `json:"entries"`
	Hits    int     `json:"hits"`
	Misses  int     `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}
