package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 hash of the event content.
// The ID is excluded so two copies of the same appointment hash equally;
// instants are hashed in UTC so the zone they were loaded in does not matter.
func (e Event) Hash() string {
	h := blake3.New()

	h.Write([]byte(e.Title))
	h.Write([]byte{0})

	h.Write([]byte(e.Start.UTC().Format(timeRFC3339Nano)))
	h.Write([]byte{0})
	h.Write([]byte(e.End.UTC().Format(timeRFC3339Nano)))
	h.Write([]byte{0})

	// Absent and empty optional fields are distinguished.
	writeOpt(h, e.Color)
	writeOpt(h, e.Notes)

	return hex.EncodeToString(h.Sum(nil))
}

func writeOpt(h *blake3.Hasher, p *string) {
	if p == nil {
		h.Write([]byte{0})
		return
	}
	h.Write([]byte{1})
	h.Write([]byte(*p))
	h.Write([]byte{0})
}

const timeRFC3339Nano = "2006-01-02T15:04:05.999999999Z07:00"
