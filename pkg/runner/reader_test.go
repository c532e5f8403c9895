package runner

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader(t *testing.T) {
	r := NewLineReader(strings.NewReader("00\r\n\n1100\n11"), 0, Truncate)
	ctx := context.Background()

	for _, want := range []string{"00", "", "1100", "11"} {
		line, err := r.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}

	_, err := r.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
	_, err = r.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF, "EOF is sticky")
}

func TestLineReader_Limit(t *testing.T) {
	r := NewLineReader(strings.NewReader("abcdef\nab\n"), 4, Truncate)
	ctx := context.Background()

	line, err := r.ReadLine(ctx)
	assert.ErrorIs(t, err, domain.ErrLineTooLong)
	assert.Equal(t, "abcd", line)

	line, err = r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ab", line, "the rest of a long line does not leak into the next one")
}

func TestLineReader_Cancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	r := NewLineReader(pr, 0, Truncate)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.ReadLine(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
