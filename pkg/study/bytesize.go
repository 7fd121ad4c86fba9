package study

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ByteSize is a file size in bytes. Older records stored a display string
// such as "2.4 MB"; those are parsed back on read.
type ByteSize int64

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// String formats the size as the dashboard shows it, in base 1024 with up to
// two decimals.
func (b ByteSize) String() string {
	if b <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(b)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(b) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + sizeUnits[i]
}

// ParseByteSize accepts a plain byte count or a value with a unit.
func ParseByteSize(s string) (ByteSize, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	fields := strings.Fields(s)
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if len(fields) == 1 {
		return ByteSize(math.Round(value)), nil
	}
	if len(fields) > 2 {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	for i, unit := range sizeUnits {
		if strings.EqualFold(fields[1], unit) || (i == 0 && strings.EqualFold(fields[1], "b")) {
			return ByteSize(math.Round(value * math.Pow(1024, float64(i)))), nil
		}
	}
	return 0, fmt.Errorf("invalid size unit in %q", s)
}

func (b *ByteSize) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*b = ByteSize(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("size must be a byte count or a sized string: %w", err)
	}
	parsed, err := ParseByteSize(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
