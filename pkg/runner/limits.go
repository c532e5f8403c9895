package runner

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aretw0/mealy/pkg/domain"
)

var (
	// DefaultMaxLineLength is the longest line processed, in bytes.
	DefaultMaxLineLength = 255
	// EnvMaxLine is the environment variable overriding the default.
	EnvMaxLine = "MEALY_MAX_LINE"
)

// LinePolicy decides what happens to a line longer than the limit.
type LinePolicy int

const (
	// Truncate runs the first limit bytes and reports the overflow.
	Truncate LinePolicy = iota
	// Reject skips the line and reports it.
	Reject
)

func (p LinePolicy) String() string {
	if p == Reject {
		return "reject"
	}
	return "truncate"
}

// MaxLineLength returns the limit from EnvMaxLine, or DefaultMaxLineLength
// when the variable is unset or not a positive integer.
func MaxLineLength() int {
	if val := os.Getenv(EnvMaxLine); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxLineLength
}

// LimitLine enforces limit on line under policy.
//
// Lines within the limit are returned unchanged with a nil error. Longer lines
// yield an error wrapping domain.ErrLineTooLong together with the first limit
// bytes (Truncate) or the empty string (Reject).
func LimitLine(line string, limit int, policy LinePolicy) (string, error) {
	if limit <= 0 || len(line) <= limit {
		return line, nil
	}
	err := fmt.Errorf("%w: size=%d limit=%d", domain.ErrLineTooLong, len(line), limit)
	if policy == Reject {
		return "", err
	}
	return line[:limit], err
}
