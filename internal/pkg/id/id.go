package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewDeliveryID generates a ULID used to correlate the log lines of one
// webhook delivery. ULIDs sort by creation time, which keeps logs greppable.
func NewDeliveryID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
