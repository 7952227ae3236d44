package helper_util

import (
	"fmt"
	"time"
)

// ParseTime parses an RFC 3339 instant; fractional seconds are accepted.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	return t, err
}

func ParseNullableTime(value interface{}) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case time.Time:
		return &v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		t, err := ParseTime(v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("unsupported type for time parsing: %T", value)
	}
}
