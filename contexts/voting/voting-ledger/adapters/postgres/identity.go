package postgresadapter

import (
	"context"
	"time"

	"peervote/contexts/voting/voting-ledger/ports"
	"peervote/internal/ids"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type ULIDGenerator struct{}

func (ULIDGenerator) NewID(_ context.Context) (string, error) {
	return ids.New(), nil
}

var (
	_ ports.Clock       = SystemClock{}
	_ ports.IDGenerator = ULIDGenerator{}
)
