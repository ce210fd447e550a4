package postgresadapter

import (
	"context"
	"time"

	"peervote/contexts/voting/campaign-service/ports"
	"peervote/internal/ids"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ULIDGenerator issues lexicographically sortable campaign and event ids.
type ULIDGenerator struct{}

func (ULIDGenerator) NewID(_ context.Context) (string, error) {
	return ids.New(), nil
}

var (
	_ ports.Clock       = SystemClock{}
	_ ports.IDGenerator = ULIDGenerator{}
)
