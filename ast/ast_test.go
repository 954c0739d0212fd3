// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/creachadair/jpush/ast"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

const testJSON = `{
  "list": [
    {
      "x": 1
    },
    {
      "x": 2
    }
  ],
  "y": {
    "hello": "there"
  },
  "o": [
    "hi",
    "yourself"
  ],
  "xyz": {
    "p": true,
    "d": true,
    "q": false
  }
}`

func mustFind(v ast.Value, key string) ast.Value {
	got, ok := v.(*ast.Object).Get(key)
	if !ok {
		panic("key not found: " + key)
	}
	return got
}

func TestPath(t *testing.T) {
	v, err := ast.Parse(strings.NewReader(testJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		name string
		path []any
		want ast.Value
		fail bool
	}{
		{"NilInput", nil, v, false},
		{"NilElement", []any{nil, "y", nil}, mustFind(v, "y"), false},
		{"NoMatch", []any{"nonesuch"}, v, true},
		{"WrongType", []any{11.5}, v, true},
		{"NotObject", []any{"o", "x"}, v, true},
		{"NotContainer", []any{"xyz", "p", 0}, v, true},

		{"ArrayPos", []any{"list", 1}, mustFind(v, "list").(ast.Array)[1], false},
		{"ArrayNeg", []any{"list", -1}, mustFind(v, "list").(ast.Array)[1], false},
		{"ArrayRange", []any{"o", 25}, v, true},
		{"ArrayNegRange", []any{"o", -3}, v, true},
		{"ObjPath", []any{"xyz", "d"}, ast.Bool(true), false},
		{"ObjIndex", []any{"xyz", -1}, ast.Bool(false), false},
		{"Deep", []any{"list", 0, "x"}, ast.Int(1), false},

		{"FuncArray", []any{"o", testPathFunc}, ast.ToValue(2), false},
		{"FuncObj", []any{"xyz", testPathFunc}, ast.ToValue(3), false},
		{"FuncWrong", []any{"xyz", "d", testPathFunc}, v, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ast.Path(v, tc.path...)
			if err != nil {
				if tc.fail {
					t.Logf("Got expected error: %v", err)
				} else {
					t.Fatalf("Path: unexpected error: %v", err)
				}
			} else if tc.fail {
				t.Fatalf("Path: got %s, want error", got.JSON())
			}
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("Wrong result (-got, +want):\n%s", diff)
			} else if err == nil {
				t.Logf("Found %s OK", got.JSON())
			}
		})
	}
}

func testPathFunc(v ast.Value) (ast.Value, error) {
	if ln, ok := v.(interface{ Len() int }); ok {
		return ast.ToValue(ln.Len()), nil
	}
	return nil, errors.New("not a thing with length")
}

func TestToValue(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{nil, "null"},
		{true, "true"},
		{int8(-3), "-3"},
		{uint16(65535), "65535"},
		{uint64(math.MaxUint64), "1.8446744073709552e+19"},
		{float32(0.5), "0.5"},
		{3.0, "3.0"},
		{"a\tb", `"a\tb"`},
		{[]any{1, "two", nil, []any{}}, `[1,"two",null,[]]`},
		{[]ast.Value{ast.Int(1), ast.Null}, `[1,null]`},
		{map[string]any{"z": 1, "a": []any{true}, "m": map[string]any{}}, `{"a":[true],"m":{},"z":1}`},
		{ast.String("already"), `"already"`},
	}
	for _, test := range tests {
		if got := ast.ToValue(test.input).JSON(); got != test.want {
			t.Errorf("ToValue(%#v): got %s, want %s", test.input, got, test.want)
		}
	}

	mtest.MustPanic(t, func() { ast.ToValue(struct{}{}) })
	mtest.MustPanic(t, func() { ast.ToValue([]any{1, complex(1, 2)}) })
}

func TestEqual(t *testing.T) {
	a := ast.ToValue(map[string]any{"x": []any{1, 2.5, "s"}, "y": nil})
	b := ast.NewObject(
		ast.Field("y", ast.Null),
		ast.Field("x", ast.Array{ast.Int(1), ast.Float(2.5), ast.String("s")}),
	)
	tests := []struct {
		a, b ast.Value
		want bool
	}{
		{ast.Null, ast.Null, true},
		{ast.Null, ast.Bool(false), false},
		{ast.Int(1), ast.Int(1), true},
		{ast.Int(1), ast.Float(1), false},
		{ast.Float(math.NaN()), ast.Float(math.NaN()), true},
		{ast.String("a"), ast.String("a"), true},
		{ast.Array{}, ast.Array{}, true},
		{ast.Array{ast.Int(1)}, ast.Array{}, false},
		{ast.Array{ast.Int(1), ast.Int(2)}, ast.Array{ast.Int(2), ast.Int(1)}, false},
		{a, b, true},
		{a, ast.NewObject(ast.Field("x", ast.Null)), false},
		{a, ast.Array{}, false},
		{ast.NewObject(), new(ast.Object), true},
	}
	for _, test := range tests {
		if got := ast.Equal(test.a, test.b); got != test.want {
			t.Errorf("Equal(%s, %s): got %v, want %v", test.a.JSON(), test.b.JSON(), got, test.want)
		}
	}
}

func TestObject(t *testing.T) {
	o := ast.NewObject(
		ast.Field("a", ast.Int(1)),
		ast.Field("b", ast.Int(2)),
		ast.Field("a", ast.Int(3)),
	)
	if diff := cmp.Diff([]string{"a", "b"}, o.Keys()); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}
	o.Set("c", ast.String("new"))
	o.Set("b", ast.Null)
	if got, want := o.JSON(), `{"a":3,"b":null,"c":"new"}`; got != want {
		t.Errorf("JSON: got %s, want %s", got, want)
	}
	if m := o.Find("nonesuch"); m != nil {
		t.Errorf("Find(nonesuch): got %+v, want nil", m)
	}
	if v, ok := o.Get("c"); !ok || v != ast.String("new") {
		t.Errorf("Get(c): got %v, %v; want new, true", v, ok)
	}
	if n := o.Len(); n != 3 || len(o.Members()) != 3 {
		t.Errorf("Len: got %d, want 3", n)
	}
}
