package contracts

import (
	"fmt"
	"strconv"
	"strings"
)

// Ball domains (SSQ: 6 red balls out of 33, 1 blue ball out of 16)
const (
	SpecialBallCount = 16
	PrimaryBallCount = 33

	// PrimaryPerDraw is the number of primary balls in one draw
	PrimaryPerDraw = 6
)

// Domain identifies which ball domain a value belongs to
type Domain uint8

const (
	// DomainSpecial is the blue ball domain (1..16)
	DomainSpecial Domain = iota + 1
	// DomainPrimary is the red ball domain (1..33)
	DomainPrimary
)

// String returns the domain name
func (d Domain) String() string {
	switch d {
	case DomainSpecial:
		return "special"
	case DomainPrimary:
		return "primary"
	default:
		return "unknown"
	}
}

// Size returns the number of members in the domain
func (d Domain) Size() int {
	switch d {
	case DomainSpecial:
		return SpecialBallCount
	case DomainPrimary:
		return PrimaryBallCount
	default:
		return 0
	}
}

// SpecialBall is a blue ball value in [1, 16]
type SpecialBall uint8

// PrimaryBall is a red ball value in [1, 33]
type PrimaryBall uint8

// NewSpecialBall validates v against the special domain
func NewSpecialBall(v int) (SpecialBall, error) {
	if v < 1 || v > SpecialBallCount {
		return 0, &InvalidDomainValueError{Domain: DomainSpecial, Value: v}
	}
	return SpecialBall(v), nil
}

// NewPrimaryBall validates v against the primary domain
func NewPrimaryBall(v int) (PrimaryBall, error) {
	if v < 1 || v > PrimaryBallCount {
		return 0, &InvalidDomainValueError{Domain: DomainPrimary, Value: v}
	}
	return PrimaryBall(v), nil
}

// Valid reports whether b is inside the special domain
func (b SpecialBall) Valid() bool { return b >= 1 && b <= SpecialBallCount }

// Valid reports whether b is inside the primary domain
func (b PrimaryBall) Valid() bool { return b >= 1 && b <= PrimaryBallCount }

func (b SpecialBall) String() string { return fmt.Sprintf("%02d", uint8(b)) }

func (b PrimaryBall) String() string { return fmt.Sprintf("%02d", uint8(b)) }

// AllSpecialBalls enumerates the special domain in ascending order
func AllSpecialBalls() []SpecialBall {
	balls := make([]SpecialBall, 0, SpecialBallCount)
	for v := 1; v <= SpecialBallCount; v++ {
		balls = append(balls, SpecialBall(v))
	}
	return balls
}

// AllPrimaryBalls enumerates the primary domain in ascending order
func AllPrimaryBalls() []PrimaryBall {
	balls := make([]PrimaryBall, 0, PrimaryBallCount)
	for v := 1; v <= PrimaryBallCount; v++ {
		balls = append(balls, PrimaryBall(v))
	}
	return balls
}

// Ball is a tagged union over the two domains.
// The zero value is not a valid ball.
type Ball struct {
	Domain Domain
	Value  uint8
}

// SpecialOf wraps a special ball
func SpecialOf(b SpecialBall) Ball {
	return Ball{Domain: DomainSpecial, Value: uint8(b)}
}

// PrimaryOf wraps a primary ball
func PrimaryOf(b PrimaryBall) Ball {
	return Ball{Domain: DomainPrimary, Value: uint8(b)}
}

// Special returns the special ball if b belongs to the special domain
func (b Ball) Special() (SpecialBall, bool) {
	if b.Domain != DomainSpecial {
		return 0, false
	}
	return SpecialBall(b.Value), true
}

// Primary returns the primary ball if b belongs to the primary domain
func (b Ball) Primary() (PrimaryBall, bool) {
	if b.Domain != DomainPrimary {
		return 0, false
	}
	return PrimaryBall(b.Value), true
}

// Less orders special balls before primary balls, then by value
func (b Ball) Less(other Ball) bool {
	if b.Domain != other.Domain {
		return b.Domain < other.Domain
	}
	return b.Value < other.Value
}

func (b Ball) String() string {
	return b.Domain.String() + ":" + strconv.Itoa(int(b.Value))
}

// AllBalls enumerates both domains, special first
func AllBalls() []Ball {
	balls := make([]Ball, 0, SpecialBallCount+PrimaryBallCount)
	for _, b := range AllSpecialBalls() {
		balls = append(balls, SpecialOf(b))
	}
	for _, b := range AllPrimaryBalls() {
		balls = append(balls, PrimaryOf(b))
	}
	return balls
}

// MarshalText lets Ball be used as a JSON object key ("special:5")
func (b Ball) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText parses the MarshalText form
func (b *Ball) UnmarshalText(text []byte) error {
	domain, value, ok := strings.Cut(string(text), ":")
	if !ok {
		return Errorf("malformed ball %q", text)
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return Errorf("malformed ball %q", text)
	}

	switch domain {
	case DomainSpecial.String():
		s, err := NewSpecialBall(v)
		if err != nil {
			return err
		}
		*b = SpecialOf(s)
	case DomainPrimary.String():
		p, err := NewPrimaryBall(v)
		if err != nil {
			return err
		}
		*b = PrimaryOf(p)
	default:
		return Errorf("malformed ball %q", text)
	}
	return nil
}
