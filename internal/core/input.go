package core

// input.go reads a fetched resource into text.
//
// Spreadsheet exports of the dataset often carry a UTF-8 byte order mark
// and, when saved from older tools, stray Latin-1 bytes. The reader strips
// the BOM and replaces invalid sequences with U+FFFD so that department
// names still compare equal to the fixed region table.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// DefaultMaxInputBytes caps a single resource read (10MB).
const DefaultMaxInputBytes int64 = 10 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// countingReader tracks bytes read for logging.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// ReadText reads r to the end, skipping a leading BOM and sanitising
// invalid UTF-8. It fails when more than maxBytes are available; a
// non-positive maxBytes selects DefaultMaxInputBytes.
func ReadText(r io.Reader, maxBytes int64) (string, int64, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInputBytes
	}

	counter := &countingReader{r: io.LimitReader(r, maxBytes+1)}
	br := bufio.NewReader(counter)

	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	raw, err := io.ReadAll(br)
	if err != nil {
		return "", counter.n, fmt.Errorf("read input: %w", err)
	}
	if counter.n > maxBytes {
		return "", counter.n, fmt.Errorf("input exceeds %d bytes", maxBytes)
	}

	return strings.ToValidUTF8(string(raw), "\uFFFD"), counter.n, nil
}
