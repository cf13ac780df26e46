package api

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var idSeq atomic.Uint64

// NewID returns a random UUID. If the system's secure random source is
// unavailable it falls back to a timestamp-derived id that is still distinct
// for every call within the process.
func NewID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return fallbackID(time.Now())
}

func fallbackID(now time.Time) string {
	n := idSeq.Add(1)
	return strconv.FormatInt(now.UnixNano(), 36) + "-" + strconv.FormatUint(n, 36)
}
