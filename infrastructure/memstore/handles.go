package memstore

import (
	"fmt"
	"strconv"
	"time"

	"anime-ringtone/domain/preview"

	"github.com/google/uuid"
)

// Handle schemes accepted by NewHandleGenerator
const (
	SchemeUUID      = "uuid"
	SchemeTimestamp = "timestamp"
)

// UUIDGenerator issues random version 4 UUID handles
type UUIDGenerator struct{}

// NewHandle implements preview.HandleGenerator
func (UUIDGenerator) NewHandle() string {
	return uuid.NewString()
}

// TimestampGenerator issues the current Unix time in milliseconds.
// Two handles requested within the same millisecond are identical.
type TimestampGenerator struct {
	Now func() time.Time
}

// NewHandle implements preview.HandleGenerator
func (g TimestampGenerator) NewHandle() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return strconv.FormatInt(now().UnixMilli(), 10)
}

// NewHandleGenerator returns the generator for a configured scheme; empty means uuid
func NewHandleGenerator(scheme string) (preview.HandleGenerator, error) {
	switch scheme {
	case "", SchemeUUID:
		return UUIDGenerator{}, nil
	case SchemeTimestamp:
		return TimestampGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown handle scheme %q (expected %q or %q)", scheme, SchemeUUID, SchemeTimestamp)
	}
}
