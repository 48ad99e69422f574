package models

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// FirstCycle is the lowest cycle identifier within a year.
	FirstCycle = 1
	// LastCycle is the highest cycle identifier within a year.
	LastCycle = 6
)

// Cycle identifies one production period by its identifier (1..6) and year.
type Cycle struct {
	Identifier int `bson:"identifier" json:"identifier"`
	Year       int `bson:"year" json:"year"`
}

// Valid reports whether the identifier lies inside the yearly rotation.
func (c Cycle) Valid() bool {
	return c.Identifier >= FirstCycle && c.Identifier <= LastCycle
}

// Previous returns the cycle that precedes c. Cycle 1 of year N follows
// cycle 6 of year N-1.
func (c Cycle) Previous() Cycle {
	if c.Identifier <= FirstCycle {
		return Cycle{Identifier: LastCycle, Year: c.Year - 1}
	}
	return Cycle{Identifier: c.Identifier - 1, Year: c.Year}
}

// String renders the cycle as "identifier/year".
func (c Cycle) String() string {
	if c.Year == 0 {
		return strconv.Itoa(c.Identifier)
	}
	return fmt.Sprintf("%d/%d", c.Identifier, c.Year)
}

// Covers reports whether c, used as a filter entry, selects other. A zero
// Year selects the identifier in every year.
func (c Cycle) Covers(other Cycle) bool {
	if c.Identifier != other.Identifier {
		return false
	}
	return c.Year == 0 || c.Year == other.Year
}

// ParseCycle reads an "identifier/year" pair such as "1/2024". A bare
// identifier ("3") yields a cycle with Year 0, which filters match in any year.
func ParseCycle(value string) (Cycle, error) {
	idPart, yearPart, hasYear := strings.Cut(strings.TrimSpace(value), "/")
	identifier, err := strconv.Atoi(strings.TrimSpace(idPart))
	if err != nil {
		return Cycle{}, fmt.Errorf("cycle %q: identifier: %w", value, err)
	}
	var year int
	if hasYear {
		year, err = strconv.Atoi(strings.TrimSpace(yearPart))
		if err != nil {
			return Cycle{}, fmt.Errorf("cycle %q: year: %w", value, err)
		}
	}
	cycle := Cycle{Identifier: identifier, Year: year}
	if !cycle.Valid() {
		return Cycle{}, fmt.Errorf("cycle %q: identifier must be within %d..%d", value, FirstCycle, LastCycle)
	}
	return cycle, nil
}
