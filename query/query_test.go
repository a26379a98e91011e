package query_test

import (
	"os"
	"testing"

	"github.com/creachadair/jdoc"
	"github.com/creachadair/jdoc/internal/testutil"
	"github.com/creachadair/jdoc/query"
	"github.com/creachadair/mds/mtest"
)

func loadSample(t *testing.T) *jdoc.Value {
	t.Helper()
	input, err := os.ReadFile("../testdata/sample.json")
	if err != nil {
		t.Fatalf("Reading test input: %v", err)
	}
	return testutil.MustParse(t, string(input), nil)
}

func TestQuery(t *testing.T) {
	val := loadSample(t)
	orig := val.JSON()

	tests := []struct {
		name string
		q    query.Query
		want string // compact JSON of the result
	}{
		{"Root", query.Path(), orig},
		{"Key", query.Key("name"), `"jdoc sample"`},
		{"Seq", query.Seq{query.Key("points"), query.Index(1), query.Key("y")}, "10000000000.0"},
		{"Path", query.Path("limits", "max"), "18446744073709551615"},
		{"PathNeg", query.Path("tags", -1), `"été"`},
		{"DuplicateKey", query.Key("tags"), `["alpha","beta","","été"]`},
		{"SynthKey", query.Key("<repeat>-tags[1]"), `"repeated key"`},
		{"EmptyKey", query.Key(""), `"empty key"`},
		{"Each", query.Seq{query.Key("points"), query.Slice(0, 2), query.Each("x")}, "[1,-4]"},
		{"Slice", query.Path("tags", query.Slice(1, -1)), `["beta",""]`},
		{"SliceToEnd", query.Path("tags", query.Slice(-2, 0)), `["","été"]`},
		{"Pick", query.Path("tags", query.Pick(3, 0, -1)), `["été","alpha","été"]`},
		{"LenArray", query.Path("tags", query.Len()), "4"},
		{"LenObject", query.Path("limits", query.Len()), "2"},
		{"LenString", query.Path("tags", 3, query.Len()), "5"},
		{"LenNull", query.Path("parent", query.Len()), "0"},
		{"Alt", query.Alt{query.Key("nonesuch"), query.Key("id")}, "1024"},
		{"Recur", query.Recur("x"), "[1,-4]"},
		{"Glob", query.Path("limits", query.Glob()), "[18446744073709551615,-9223372036854775808]"},
		{"Keys", query.Path("limits", query.Keys()), `["max","min"]`},
		{"KeysNull", query.Path("parent", query.Keys()), "[]"},
		{"Select", query.Path("tags", query.Filter(jdoc.StringKind, func(v *jdoc.Value) bool {
			return v.AsString("") != ""
		})), `["alpha","beta","été"]`},
		{"Exists", query.Path("points", query.Exists("x")), `[{"x":1,"y":0.0025},{"x":-4,"y":10000000000.0}]`},
		{"IsKind", query.Path("points", query.Is(jdoc.ArrayKind)), "[[]]"},
		{"IsNot", query.Path("points", query.IsNot(jdoc.ArrayKind, jdoc.NullKind)), `[{"x":1,"y":0.0025},{"x":-4,"y":10000000000.0}]`},
		{"IsNumber", query.Seq{query.Glob(), query.Is()}, "[1024,0.75]"},
		{"Map", query.Seq{query.Key("tags"), query.Map(jdoc.StringKind, func(v *jdoc.Value) *jdoc.Value {
			return jdoc.Int64(int64(len(v.AsString(""))))
		})}, "[5,4,0,5]"},
		{"Object", query.Object{
			"n":   query.Key("name"),
			"max": query.Path("limits", "max"),
			"c":   query.Value(3),
		}, `{"c":3,"max":18446744073709551615,"n":"jdoc sample"}`},
		{"Array", query.Array{query.Key("id"), query.Value(nil), query.Value("x"), query.Value(true)}, `[1024,null,"x",true]`},
		{"Set", query.Path("limits", query.Set("min", query.Value(0))), `{"max":18446744073709551615,"min":0}`},
		{"SetNew", query.Path("limits", query.Set("mid", query.Value(2.5))), `{"max":18446744073709551615,"min":-9223372036854775808,"mid":2.5}`},
		{"SetNull", query.Path("parent", query.Set("a", query.Value(1))), `{"a":1}`},
		{"Del", query.Path("limits", query.Del("max")), `{"min":-9223372036854775808}`},
		{"DelMissing", query.Path("limits", query.Del("nonesuch")), `{"max":18446744073709551615,"min":-9223372036854775808}`},
		{"DelNull", query.Path("parent", query.Del("a")), "null"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := query.Eval(val, tc.q)
			if err != nil {
				t.Fatalf("Eval failed: %v", err)
			}
			if got := v.JSON(); got != tc.want {
				t.Errorf("Result: got %s, want %s", got, tc.want)
			}
		})
	}

	// None of the queries modified the input.
	if got := val.JSON(); got != orig {
		t.Errorf("Input was modified:\ngot  %s\nwant %s", got, orig)
	}
}

func TestQueryErrors(t *testing.T) {
	val := loadSample(t)

	tests := []struct {
		name string
		q    query.Query
	}{
		{"NoKey", query.Key("nonesuch")},
		{"KeyOfArray", query.Path("tags", "x")},
		{"IndexOfObject", query.Index(0)},
		{"IndexRange", query.Path("tags", 4)},
		{"SliceRange", query.Path("tags", query.Slice(5, 0))},
		{"SliceOrder", query.Path("tags", query.Slice(3, 1))},
		{"PickRange", query.Path("tags", query.Pick(0, 9))},
		{"LenBool", query.Path("enabled", query.Len())},
		{"EmptyAlt", query.Alt{}},
		{"NoRecur", query.Recur("nonesuch")},
		{"EachFails", query.Path("points", query.Each("x"))},
		{"GlobScalar", query.Path("id", query.Glob())},
		{"KeysArray", query.Path("tags", query.Keys())},
		{"ObjectFails", query.Object{"a": query.Key("nonesuch")}},
		{"ArrayFails", query.Array{query.Key("id"), query.Index(0)}},
		{"SetFails", query.Set("a", query.Key("nonesuch"))},
		{"SetArray", query.Path("tags", query.Set("a", query.Value(1)))},
		{"DelArray", query.Path("tags", query.Del("a"))},
		{"SelectObject", query.Exists("x")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := query.Eval(val, tc.q)
			if err == nil {
				t.Errorf("Eval: got %v, want error", v)
			} else {
				t.Logf("Got expected error: %v", err)
			}
		})
	}

	mtest.MustPanic(t, func() { query.Path(1.5) })
	mtest.MustPanic(t, func() { query.Value([]int{1}) })
}
