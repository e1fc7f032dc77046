// Package orderid produces the short order codes shown to customers and staff.
package orderid

import (
	"encoding/binary"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Length is the number of characters in every order id.
const Length = 8

const (
	randomSpace = 36 * 36 * 36 * 36 // four base-36 digits of entropy per millisecond
	idSpace     = randomSpace * randomSpace
)

// Generator builds ids from the current millisecond followed by a random component.
// Within one process ids are strictly increasing before reduction, so two calls in
// the same millisecond never collide.
type Generator struct {
	now  func() time.Time
	last atomic.Uint64
}

// NewGenerator returns a generator reading the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// New returns an upper-case base-36 id of exactly Length characters.
func (g *Generator) New() string {
	next := uint64(g.now().UnixMilli())*randomSpace + randomComponent()
	for {
		prev := g.last.Load()
		if next <= prev {
			next = prev + 1
		}
		if g.last.CompareAndSwap(prev, next) {
			break
		}
	}
	return format(next % idSpace)
}

func randomComponent() uint64 {
	u := uuid.New()
	return binary.BigEndian.Uint64(u[8:]) % randomSpace
}

func format(v uint64) string {
	s := strings.ToUpper(strconv.FormatUint(v, 36))
	if len(s) < Length {
		s = strings.Repeat("0", Length-len(s)) + s
	}
	return s
}

var defaultGenerator = NewGenerator()

// New returns an id from the process-wide generator.
func New() string {
	return defaultGenerator.New()
}

// FromReference derives an id from a payment provider reference, using its last
// Length characters upper-cased. This is the code the customer's confirmation page
// shows for card payments. Short references get a freshly generated id.
func FromReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if len(ref) < Length {
		return New()
	}
	return strings.ToUpper(ref[len(ref)-Length:])
}
