package compiler

import (
	"github.com/google/uuid"
)

// LoadIDGenerator produces the identifier attached to every log line of
// one compile run. Implemented by UUIDv7Generator and, in tests,
// testutil.FixedLoadIDGenerator.
type LoadIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 load IDs, so successive
// reloads of a watched file sort in order.
type UUIDv7Generator struct{}

// Generate panics if UUID generation fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
