package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date as sent by the Event Service. It accepts RFC3339
// timestamps and bare "2006-01-02" dates. Empty strings and null decode to the
// zero Date.
type Date struct {
	t time.Time
}

func NewDate(t time.Time) Date {
	return Date{t: t}
}

func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Date{t: t}, nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}

	return Date{t: t}, nil
}

func (d Date) Time() time.Time {
	return d.t
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}

	return d.t.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}
