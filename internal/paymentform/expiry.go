package paymentform

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])\d{2}$`)

// Clock supplies the current time for expiry checks
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock
var SystemClock Clock = ClockFunc(time.Now)

// IsExpired reports whether an MM/YY expiry lies before the month of now.
// Anything that is not a month 01-12 followed by two year digits counts as
// expired. Years are read as 20YY and there is no upper bound.
func IsExpired(expiry string, now time.Time) bool {
	compact := strings.ReplaceAll(expiry, "/", "")
	if !expiryPattern.MatchString(compact) {
		return true
	}

	month, _ := strconv.Atoi(compact[:2])
	yy, _ := strconv.Atoi(compact[2:])
	year := 2000 + yy

	if year < now.Year() {
		return true
	}
	return year == now.Year() && month < int(now.Month())
}
