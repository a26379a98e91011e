// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jdoc_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/creachadair/jdoc"
	"github.com/creachadair/jdoc/internal/testutil"
)

func TestPrinter(t *testing.T) {
	const input = `{"name": "a\"b", "list": [1, 2.0, null, [], {}], "obj": {"t": true}, "": "e"}`
	v := testutil.MustParse(t, input, nil)

	tests := []struct {
		name string
		p    jdoc.Printer
		want string
	}{
		{"Compact", jdoc.Printer{},
			`{"name":"a\"b","list":[1,2.0,null,[],{}],"obj":{"t":true},"":"e"}`},
		{"Pretty", jdoc.Printer{Indent: "  "}, `{
  "name": "a\"b",
  "list": [
    1,
    2.0,
    null,
    [],
    {}
  ],
  "obj": {
    "t": true
  },
  "": "e"
}`},
		{"Tabs", jdoc.Printer{Indent: "\t"}, "{\n\t\"name\": \"a\\\"b\",\n\t\"list\": [\n\t\t1,\n\t\t2.0,\n\t\tnull,\n\t\t[],\n\t\t{}\n\t],\n\t\"obj\": {\n\t\t\"t\": true\n\t},\n\t\"\": \"e\"\n}"},
		{"Literal", jdoc.Printer{Literal: true},
			`{name:a"b,list:[1,2.0,null,[],{}],obj:{t:true},:e}`},
		{"Wrap", jdoc.Printer{MaxLineLength: 20}, `{"name":"a\"b","list":[1,
2.0,null,[],{}],"obj":{"t":true},
"":"e"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.Format(v); got != tc.want {
				t.Errorf("Format:\ngot:\n%s\nwant:\n%s", got, tc.want)
			}

			var buf bytes.Buffer
			if err := tc.p.Print(&buf, v); err != nil {
				t.Fatalf("Print: unexpected error: %v", err)
			}
			if got := buf.String(); got != tc.want {
				t.Errorf("Print:\ngot:\n%s\nwant:\n%s", got, tc.want)
			}
		})
	}
}

func TestPrintWrap(t *testing.T) {
	v := jdoc.NewArray()
	for i := range 50 {
		v.Append(jdoc.Int64(int64(i * 1000)))
	}
	const maxLine = 40
	text := jdoc.Compact(v, maxLine)
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		t.Fatalf("Compact did not wrap: %s", text)
	}
	for _, line := range lines {
		// A line breaks at the first opportunity after it exceeds the limit,
		// so it may overrun by at most one token and its comma.
		if len(line) > maxLine+len("49000,") {
			t.Errorf("Line too long (%d bytes): %q", len(line), line)
		}
	}

	// Wrapped output is still the same document.
	w := testutil.MustParse(t, text, nil)
	if !jdoc.Equal(v, w) {
		t.Errorf("Wrapped text: got %v, want %v", w, v)
	}
}

func TestPrintStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{"plain", `"plain"`},
		{"\"\\/", `"\"\\/"`},
		{"\b\f\n\r\t", `"\b\f\n\r\t"`},
		{"\x00\x01\x1f", `"\u0000\u0001\u001f"`},
		{"\x7f é   😀", "\"\x7f é   😀\""},
	}
	for _, tc := range tests {
		if got := jdoc.String(tc.input).JSON(); got != tc.want {
			t.Errorf("JSON(%q): got %#q, want %#q", tc.input, got, tc.want)
		}
	}
}

func TestPrintDoubles(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{1, "1.0"},
		{-25, "-25.0"},
		{0.1, "0.1"},
		{1.0 / 3, "0.3333333333333333"},
		{123456789, "123456789.0"},
		{1e20, "100000000000000000000.0"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{5e-324, "5e-324"},
		{math.MaxFloat64, "1.7976931348623157e+308"},
	}
	for _, tc := range tests {
		got := jdoc.Double(tc.input).JSON()
		if got != tc.want {
			t.Errorf("JSON(%v): got %q, want %q", tc.input, got, tc.want)
		}
		if !strings.ContainsAny(got, ".e") {
			t.Errorf("JSON(%v): %q has no decimal point or exponent", tc.input, got)
		}
		if back, err := jdoc.ParseString(got, nil); err != nil || back.AsFloat64(-1) != tc.input {
			t.Errorf("Parse %q: got %v, %v; want %v", got, back, err, tc.input)
		}
	}

	for _, bad := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		var buf bytes.Buffer
		if err := (jdoc.Printer{}).Print(&buf, jdoc.NewArray(jdoc.Double(bad))); err == nil {
			t.Errorf("Print %v: got %q, want error", bad, buf.String())
		}
		if got := jdoc.Double(bad).JSON(); got != "" {
			t.Errorf("JSON(%v): got %q, want empty", bad, got)
		}
	}
}

func TestPrintDuplicateKeys(t *testing.T) {
	const input = `{"k":1,"k":2,"":3,"":{"k":[]}}`
	v := testutil.MustParse(t, input, nil)
	if got := v.JSON(); got != input {
		t.Errorf("JSON: got %#q, want %#q", got, input)
	}
}
