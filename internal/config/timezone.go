package config

import (
	"fmt"
	"strings"
	"time"
)

// Location resolves timezone, an IANA name such as Asia/Kolkata or a fixed
// offset such as +05:30. It is nil when timezone is unset.
func (c *AppConfig) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" {
		return nil, nil
	}
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}
	if t, err := time.Parse("-07:00", tz); err == nil {
		_, offset := t.Zone()
		return time.FixedZone(tz, offset), nil
	}
	return nil, fmt.Errorf("invalid timezone %q, expected an IANA zone or an offset like +05:30", tz)
}
