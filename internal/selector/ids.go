package selector

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"calselect/internal/domain"
)

// DefaultMaxIDRetries bounds how many random ids BeginSelection draws before giving up
const DefaultMaxIDRetries = 64

// ErrIDAllocation is returned by BeginSelection when every drawn id was already taken
var ErrIDAllocation = errors.New("selection id allocation failed")

// IDSource yields candidate ids. Values <= 0 are rejected and redrawn.
type IDSource func() int64

func randomIDSource() int64 {
	return rand.Int64N(math.MaxInt64-1) + 1
}

func (s *Selector) allocateID() (domain.SelectionID, error) {
	for attempt := 0; attempt < s.maxIDRetries; attempt++ {
		candidate := s.idSource()
		if candidate <= 0 {
			continue
		}
		id := domain.SelectionID(candidate)
		if _, taken := s.selections[id]; !taken {
			return id, nil
		}
		s.logger.Debug("selector: id collision, redrawing", "id", id, "attempt", attempt+1)
	}
	return 0, fmt.Errorf("%w: %d draws against %d live selections",
		ErrIDAllocation, s.maxIDRetries, len(s.selections))
}
