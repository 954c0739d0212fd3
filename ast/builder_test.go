// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"bytes"
	"errors"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/creachadair/jpush"
	"github.com/creachadair/jpush/ast"
	"github.com/creachadair/jpush/feed"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	input, err := os.ReadFile("../testdata/input.json")
	if err != nil {
		t.Fatalf("Reading test input: %v", err)
	}

	start := time.Now()
	v, err := ast.Parse(bytes.NewReader(input))
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	t.Logf("Parsed %d bytes [%v elapsed]", len(input), elapsed)

	// Inspect some of the structure of the test value to make sure we got
	// something approximating sense.
	//
	// If the testdata file changes, this may need to be updated.
	//
	// {
	//   "series": "example",
	//   "count": 300,
	//   "episodes": [
	//     {
	//       "episode": 1,
	//       ...
	//       "summary": "whatever blah blah",
	//       ...
	//     },
	//     ...
	//   ]
	// }
	//

	root, ok := v.(*ast.Object)
	if !ok {
		t.Fatalf("Root is %T, not object", v)
	}
	check[ast.Int](t, root, "count", func(n ast.Int) {
		lst, err := ast.Path(root, "episodes")
		if err != nil {
			t.Fatalf("Path: %v", err)
		}
		if got := lst.(ast.Array).Len(); got != int(n) {
			t.Errorf("Got %d episodes, want %d", got, n)
		}
	})
	ep, err := ast.Path(root, "episodes", 1)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	obj, ok := ep.(*ast.Object)
	if !ok {
		t.Fatalf("Array entry is %T, not object", ep)
	}
	check[ast.String](t, obj, "summary", func(s ast.String) {
		t.Logf("String field value: %s", s)
		if !strings.HasSuffix(string(s), "\"quoted\"\ttab\\slash") {
			t.Errorf("String %s has the wrong suffix", s.JSON())
		}
	})
	check[ast.Int](t, obj, "episode", func(v ast.Int) {
		if v != 2 {
			t.Errorf("Episode: got %d, want 2", v)
		}
	})
	check[ast.Float](t, obj, "rating", nil)
	check[ast.Bool](t, obj, "hasDetail", nil)
	check[ast.Array](t, obj, "tags", nil)

	// The same input, parsed in small pieces, must produce the same value.
	p := jpush.NewParser()
	b := ast.NewBuilder(p)
	if err := feed.Chunks(p, input, 7); err != nil {
		t.Fatalf("Parse in chunks failed: %v", err)
	}
	if w, err := b.Result(); err != nil {
		t.Fatalf("Result: %v", err)
	} else if !ast.Equal(v, w) {
		t.Error("Chunked parse does not match whole parse")
	}
}

func check[T any](t *testing.T, obj *ast.Object, key string, f func(T)) {
	t.Helper()
	if v, ok := obj.Get(key); !ok {
		t.Fatalf("Key %q not found", key)
	} else if tv, ok := v.(T); !ok {
		var zero T
		t.Fatalf("Key %q value is %T, not %T", key, v, zero)
	} else if f != nil {
		f(tv)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		input ast.Value
		want  string
	}{
		{ast.Null, "null"},

		{ast.Bool(false), "false"},
		{ast.Bool(true), "true"},

		{ast.String(""), `""`},
		{ast.String("a \t b"), `"a \t b"`},
		{ast.String(`q"uo\te`), `"q\"uo\\te"`},

		{ast.Float(-0.00239), `-0.00239`},
		{ast.Float(100), `100.0`},
		{ast.Float(1e21), `1e+21`},
		{ast.Float(math.Inf(-1)), `null`},

		{ast.Int(0), `0`},
		{ast.Int(15), `15`},
		{ast.Int(-25), `-25`},

		{ast.Array{}, `[]`},
		{ast.Array{
			ast.Bool(false),
		}, `[false]`},
		{ast.Array{
			ast.Bool(true),
			ast.Int(199),
		}, `[true,199]`},
		{ast.Array{
			ast.String("free"),
			ast.String("your"),
			ast.String("mind"),
		}, `["free","your","mind"]`},

		{ast.NewObject(), `{}`},
		{ast.NewObject(
			ast.Field("xs", ast.Null),
		), `{"xs":null}`},
		{ast.NewObject(
			ast.Field("name", ast.String("Dennis")),
			ast.Field("age", ast.Int(37)),
			ast.Field("isOld", ast.Bool(false)),
		), `{"name":"Dennis","age":37,"isOld":false}`},

		{ast.NewObject(
			ast.Field("values", ast.Array{
				ast.Int(5),
				ast.Int(10),
				ast.Bool(true),
			}),
			ast.Field("page", ast.NewObject(
				ast.Field("token", ast.String("xyz-pdq-zvm")),
				ast.Field("count", ast.Int(100)),
			)),
		), `{"values":[5,10,true],"page":{"token":"xyz-pdq-zvm","count":100}}`},
	}
	for _, test := range tests {
		got := test.input.JSON()
		if got != test.want {
			t.Errorf("Input: %+v\nGot:  %s\nWant: %s", test.input, got, test.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	values := []ast.Value{
		ast.Null,
		ast.Bool(true),
		ast.Int(math.MinInt64),
		ast.Int(math.MaxInt64),
		ast.Float(0.1),
		ast.Float(-2.5e-300),
		ast.Float(1e300),
		ast.Float(8.41e21),
		ast.Float(89255.0e-22),
		ast.Float(7),
		ast.String(""),
		ast.String("tab\tnewline\nquote\"slash\\ ctl\x01 del\x7f caf\u00e9 \u2028 \U0001f600"),
		ast.Array{},
		ast.Array{ast.Array{ast.Array{}}, ast.NewObject()},
		ast.ToValue(map[string]any{
			"":      "empty key",
			"list":  []any{1, 2.5, "x", nil, true, false},
			"inner": map[string]any{"deep": map[string]any{"er": []any{map[string]any{}}}},
		}),
	}
	for _, want := range values {
		text := want.JSON()
		got, err := ast.Parse(strings.NewReader(text))
		if err != nil {
			t.Errorf("Parse %#q: unexpected error: %v", text, err)
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Round trip %#q (-want, +got):\n%s", text, diff)
		}
	}
}

func TestDuplicateKeys(t *testing.T) {
	v, err := ast.Parse(strings.NewReader(`{"a":1,"b":2,"a":3}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	obj := v.(*ast.Object)
	if diff := cmp.Diff([]string{"a", "b"}, obj.Keys()); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}
	if got, _ := obj.Get("a"); got != ast.Int(3) {
		t.Errorf("Value of a: got %v, want 3", got)
	}
}

func TestBuilder(t *testing.T) {
	t.Run("NoResult", func(t *testing.T) {
		p := jpush.NewParser()
		b := ast.NewBuilder(p)
		if err := p.Feed([]byte(`{"a": [1, 2`)); err != nil {
			t.Fatalf("Feed: %v", err)
		}
		if v, err := b.Result(); !errors.Is(err, ast.ErrNoResult) {
			t.Errorf("Result: got %v, %v; want %v", v, err, ast.ErrNoResult)
		}
	})

	t.Run("Scalar", func(t *testing.T) {
		p := jpush.NewParser()
		b := ast.NewBuilder(p)
		if err := p.Feed([]byte(`"solo"`)); err != nil {
			t.Fatalf("Feed: %v", err)
		}
		if err := p.Finish(); err != nil {
			t.Fatalf("Finish: %v", err)
		}
		if v, err := b.Result(); err != nil || v != ast.String("solo") {
			t.Errorf("Result: got %v, %v; want solo", v, err)
		}
	})

	// A top-level scalar is not a result until its document ends.
	t.Run("PendingScalar", func(t *testing.T) {
		p := jpush.NewParser()
		b := ast.NewBuilder(p)
		if err := p.Feed([]byte(`42 `)); err != nil {
			t.Fatalf("Feed: %v", err)
		}
		if v, err := b.Result(); !errors.Is(err, ast.ErrNoResult) {
			t.Errorf("Result before Finish: got %v, %v; want %v", v, err, ast.ErrNoResult)
		}
		if err := p.Finish(); err != nil {
			t.Fatalf("Finish: %v", err)
		}
		if v, err := b.Result(); err != nil || v != ast.Int(42) {
			t.Errorf("Result after Finish: got %v, %v; want 42", v, err)
		}
	})

	t.Run("FailedScalar", func(t *testing.T) {
		p := jpush.NewParser()
		b := ast.NewBuilder(p)
		if err := p.Feed([]byte(`42 `)); err != nil {
			t.Fatalf("Feed: %v", err)
		}
		if err := p.Feed([]byte(`x`)); err == nil {
			t.Fatal("Feed: got nil, want error")
		}
		if v, err := b.Result(); !errors.Is(err, ast.ErrNoResult) {
			t.Errorf("Result: got %v, %v; want %v", v, err, ast.ErrNoResult)
		}
		if len(b.Values()) != 0 {
			t.Errorf("Values: got %v, want none", b.Values())
		}
	})

	// One Builder collects every document of a multiple-value stream.
	t.Run("Multiple", func(t *testing.T) {
		p := jpush.NewParser()
		p.AllowMultipleValues(true)
		b := ast.NewBuilder(p)
		if err := feed.Chunks(p, []byte(`{"a":1} [2] 3 "x"`), 2); err != nil {
			t.Fatalf("Parse: %v", err)
		}
		want := []ast.Value{
			ast.NewObject(ast.Field("a", ast.Int(1))),
			ast.Array{ast.Int(2)},
			ast.Int(3),
			ast.String("x"),
		}
		if diff := cmp.Diff(want, b.Values()); diff != "" {
			t.Errorf("Values (-want, +got):\n%s", diff)
		}
		if v, err := b.Result(); err != nil || v != ast.String("x") {
			t.Errorf("Result: got %v, %v; want x", v, err)
		}

		b.Reset()
		if len(b.Values()) != 0 {
			t.Errorf("After Reset: got %d values, want 0", len(b.Values()))
		}
		if _, err := b.Result(); !errors.Is(err, ast.ErrNoResult) {
			t.Errorf("After Reset: got %v, want %v", err, ast.ErrNoResult)
		}
	})

	t.Run("Partial", func(t *testing.T) {
		p := jpush.NewParser()
		p.AllowPartialValues(true)
		b := ast.NewBuilder(p)
		if err := feed.Chunks(p, []byte(`{"a": [1, {"b": true, "c": nu`), 5); err != nil {
			t.Fatalf("Parse: %v", err)
		}
		v, err := b.Result()
		if err != nil {
			t.Fatalf("Result: %v", err)
		}
		if got, want := v.JSON(), `{"a":[1,{"b":true}]}`; got != want {
			t.Errorf("Result: got %s, want %s", got, want)
		}
	})

	t.Run("Error", func(t *testing.T) {
		v, err := ast.Parse(strings.NewReader(`[1, 2,]`))
		if err == nil {
			t.Fatalf("Parse: got %s, want error", v.JSON())
		}
		vs, err := ast.ParseAll(strings.NewReader(`[1] {"ok": true} [`))
		if err == nil {
			t.Error("ParseAll: got nil, want error")
		}
		if len(vs) != 2 {
			t.Errorf("ParseAll: got %d values, want 2", len(vs))
		}
	})
}
