package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a ULID in its canonical 26 character form. Principals, tasks and
// request IDs all use it.
type ID string

// Zero is the empty ID.
const Zero ID = ""

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

// source hands out monotonic ULIDs; the entropy reader is not safe for
// concurrent use on its own.
type source struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var defaultSource = sync.OnceValue(func() *source {
	return &source{entropy: ulid.Monotonic(rand.Reader, 0)}
})

func (s *source) at(t time.Time) ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t.UTC()), s.entropy).String())
}

// New returns a new ID for the current time.
func New() ID {
	return defaultSource().at(time.Now())
}

// NewAt returns a new ID whose timestamp component is t. IDs created for the
// same millisecond still sort in creation order.
func NewAt(t time.Time) ID {
	return defaultSource().at(t)
}

// Parse validates s and returns it as an ID. Surrounding whitespace is ignored.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}
	if _, err := ulid.ParseStrict(s); err != nil {
		return Zero, ErrInvalid
	}
	return ID(s), nil
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == Zero }

// String returns the canonical string form.
func (id ID) String() string { return string(id) }
