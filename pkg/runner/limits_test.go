package runner

import (
	"strings"
	"testing"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestMaxLineLength(t *testing.T) {
	t.Setenv(EnvMaxLine, "")
	assert.Equal(t, 255, MaxLineLength())

	t.Setenv(EnvMaxLine, "16")
	assert.Equal(t, 16, MaxLineLength())

	t.Setenv(EnvMaxLine, "-3")
	assert.Equal(t, 255, MaxLineLength())

	t.Setenv(EnvMaxLine, "lots")
	assert.Equal(t, 255, MaxLineLength())
}

func TestLimitLine(t *testing.T) {
	long := strings.Repeat("01", 200)

	line, err := LimitLine("0011", 255, Truncate)
	assert.NoError(t, err)
	assert.Equal(t, "0011", line)

	line, err = LimitLine(long, 255, Truncate)
	assert.ErrorIs(t, err, domain.ErrLineTooLong)
	assert.Len(t, line, 255)
	assert.Contains(t, err.Error(), "size=400 limit=255")

	line, err = LimitLine(long, 255, Reject)
	assert.ErrorIs(t, err, domain.ErrLineTooLong)
	assert.Empty(t, line)

	line, err = LimitLine(long, 0, Reject)
	assert.NoError(t, err, "non-positive limit disables the check")
	assert.Equal(t, long, line)
}

func TestLinePolicy_String(t *testing.T) {
	assert.Equal(t, "truncate", Truncate.String())
	assert.Equal(t, "reject", Reject.String())
}
