package chrono

import (
	"time"
)

// DefaultLocation is the timezone the listings are published in.
const DefaultLocation = "Asia/Kolkata"

// API is the interface that anything depending on the system clock should use.
type API interface {
	// Now returns the current time in the configured location.
	Now() time.Time
	Location() *time.Location
}

// StandardImpl is the standard implementation of API using the standard library.
type StandardImpl struct {
	location *time.Location
}

// NewStandardImpl is the constructor of StandardImpl, an empty `location` means DefaultLocation.
func NewStandardImpl(location string) (StandardImpl, error) {
	if location == "" {
		location = DefaultLocation
	}
	loc, err := time.LoadLocation(location)
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: loc}, nil
}

// force the date to be computed in the market's timezone, a fetch that runs just after
// midnight UTC would otherwise be filed under the previous trading day.
func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// FixedTime is an API that always returns the same instant.
type FixedTime struct {
	At time.Time
}

func (f FixedTime) Now() time.Time {
	return f.At
}

func (f FixedTime) Location() *time.Location {
	return f.At.Location()
}

// DateLayout is the layout used for every date that ends up in a filename.
const DateLayout = "2006-01-02"

// Date formats t as YYYY-MM-DD.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}
