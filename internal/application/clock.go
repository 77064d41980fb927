package application

import "time"

// Clock interface supaya timestamp gampang ditest
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now() dalam UTC
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always reports T.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }
