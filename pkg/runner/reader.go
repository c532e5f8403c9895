package runner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// LineReader reads newline-terminated lines of any length and applies the
// line limit. A trailing "\r" is dropped. The final line does not need a
// newline.
//
// Reads happen on a background goroutine so that ReadLine can return as soon
// as its context is cancelled, even while the source is blocked.
type LineReader struct {
	reader *bufio.Reader
	limit  int
	policy LinePolicy

	lines     chan lineResult
	startOnce sync.Once
}

type lineResult struct {
	text string
	err  error
}

// NewLineReader creates a reader with the given limit and policy.
// A limit of zero or less disables the check.
func NewLineReader(r io.Reader, limit int, policy LinePolicy) *LineReader {
	return &LineReader{
		reader: bufio.NewReader(r),
		limit:  limit,
		policy: policy,
	}
}

func (l *LineReader) pump() {
	l.startOnce.Do(func() {
		l.lines = make(chan lineResult)
		go func() {
			defer close(l.lines)
			for {
				text, err := l.reader.ReadString('\n')
				if errors.Is(err, io.EOF) && text != "" {
					err = nil
				}
				l.lines <- lineResult{text: text, err: err}
				if err != nil {
					return
				}
			}
		}()
	})
}

// ReadLine returns the next line.
//
// It returns io.EOF once the source is exhausted and ctx.Err() if ctx is done
// first. An over-long line comes back with an error wrapping
// domain.ErrLineTooLong; under Truncate the returned text is still usable.
func (l *LineReader) ReadLine(ctx context.Context) (string, error) {
	l.pump()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		line := strings.TrimSuffix(res.text, "\n")
		line = strings.TrimSuffix(line, "\r")
		return LimitLine(line, l.limit, l.policy)
	}
}
