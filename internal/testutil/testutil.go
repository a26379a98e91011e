// Package testutil defines support code for unit tests.
package testutil

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"testing"

	"github.com/creachadair/jdoc"
	"github.com/google/go-cmp/cmp"
)

// ValueComparer is a cmp option that compares *jdoc.Value trees with
// jdoc.DeepEqual.
var ValueComparer = cmp.Comparer(jdoc.DeepEqual)

// MustParse parses text with the given options, or fails t.
func MustParse(t testing.TB, text string, opts *jdoc.Options) *jdoc.Value {
	t.Helper()
	v, err := jdoc.ParseString(text, opts)
	if err != nil {
		t.Fatalf("Parse %#q: unexpected error: %v", text, err)
	}
	return v
}

// DumpEvents renders a sequence of events as text, one event per line. Each
// line gives the level and kind of the event, the key of an object member,
// and the text of a scalar.
func DumpEvents(seq iter.Seq[*jdoc.Value]) string {
	var sb strings.Builder
	for v := range seq {
		fmt.Fprintf(&sb, "%d %v", v.Level(), v.Kind())
		if key := v.LiteralName(); key != "" {
			fmt.Fprintf(&sb, " %q", key)
		}
		switch v.Kind() {
		case jdoc.ArrayKind, jdoc.ObjectKind, jdoc.EndArrayKind, jdoc.EndObjectKind:
		default:
			fmt.Fprintf(&sb, " <%s>", v.JSON())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DiffLines compares want and got line by line, ignoring leading and trailing
// whitespace, and returns a cmp.Diff of the lines.
func DiffLines(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}

// ChunkReader is an io.Reader that returns at most N bytes per Read from S.
type ChunkReader struct {
	S string
	N int
}

func (c *ChunkReader) Read(data []byte) (int, error) {
	if c.S == "" {
		return 0, io.EOF
	}
	n := copy(data[:min(len(data), c.N)], c.S)
	c.S = c.S[n:]
	return n, nil
}
