package date

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// noClock sorts after every real time of day.
const noClock = "99:99"

// Clock is a time of day with minute granularity, or no time at all.
//
// Its zero value is the empty clock. A parsed Clock is always "HH:MM",
// zero-padded, on a 24h dial. Text kept by UnreadClock is neither.
type Clock struct {
	hm     string
	unread bool
}

// ParseClock normalizes a time of day. Seconds are dropped and both
// components are zero-padded: "9:5" becomes "09:05" and "14:30:59" becomes
// "14:30". A blank string is the empty clock.
func ParseClock(str string) (Clock, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return Clock{}, nil
	}
	parts := strings.Split(str, ":")
	if len(parts) < 2 {
		return Clock{}, fmt.Errorf("invalid time %q want format HH:MM", str)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("invalid hour in time %q", str)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("invalid minute in time %q", str)
	}
	return Clock{hm: fmt.Sprintf("%02d:%02d", h, m)}, nil
}

// MustParseClock is like ParseClock but panics on error.
func MustParseClock(str string) Clock {
	c, err := ParseClock(str)
	if err != nil {
		panic(err.Error())
	}
	return c
}

// UnreadClock keeps text that is not a time of day, as stored by old records.
// It prints verbatim and sorts with the empty clock.
func UnreadClock(str string) Clock {
	if strings.TrimSpace(str) == "" {
		return Clock{}
	}
	return Clock{hm: str, unread: true}
}

// IsZero reports whether no time of day is set.
func (c Clock) IsZero() bool { return c.hm == "" }

// String returns "HH:MM" or "" for the empty clock.
func (c Clock) String() string { return c.hm }

// SortKey is the value used to order clocks. The empty clock sorts last.
func (c Clock) SortKey() string {
	if c.hm == "" || c.unread {
		return noClock
	}
	return c.hm
}

// MarshalJSON writes the clock as a string.
func (c Clock) MarshalJSON() ([]byte, error) { return json.Marshal(c.hm) }

// UnmarshalJSON reads and normalizes a clock string.
func (c *Clock) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	parsed, err := ParseClock(str)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
