package storage

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// NewImageKey returns roots/<ulid>.<ext>; keys sort by upload time.
func NewImageKey(ext string, now time.Time) string {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(now), entropy)
	entropyMu.Unlock()
	return fmt.Sprintf("roots/%s.%s", strings.ToLower(id.String()), ext)
}
