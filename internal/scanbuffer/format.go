package scanbuffer

import (
	"io"
	"strconv"
	"strings"
)

// String renders the newest scan as "{ v0, v1, ... }", or "{ }" when the
// buffer is empty.
func (b *ScanBuffer) String() string {
	if b.occupied == 0 {
		return "{ }"
	}

	scan := b.slots[b.newest]
	var sb strings.Builder
	sb.Grow(len(scan)*12 + 4)
	sb.WriteString("{ ")
	for i, v := range scan {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
	}
	sb.WriteString(" }")
	return sb.String()
}

// WriteTo writes the String rendering followed by a newline to w.
func (b *ScanBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.String()+"\n")
	return int64(n), err
}
