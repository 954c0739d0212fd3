// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package jpath implements a small subset of JSONPath for selecting a single
// value from an ast.Value.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/creachadair/jpush/ast"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = "[" name "]"
  step = "[" INDEX "]"
  name = WORD
  name = "'" QTEXT "'"

  WORD = RE `[\w-]+`
 QTEXT = RE `[^']*`
 INDEX = RE `-?\d+`

A negative index counts backward from the end of an array.

Source:
  https://www.ietf.org/archive/id/draft-goessner-dispatch-jsonpath-00.html
*/

// An Expr is a parsed path expression.
type Expr []Step

// Parse parses s as a path expression.
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var steps Expr
	for t != "" {
		step, rest, err := parseStep(t)
		if err != nil {
			return nil, fmt.Errorf("at offset %d: %w", len(s)-len(t), err)
		}
		steps = append(steps, step)
		t = rest
	}
	return steps, nil
}

// MustParse parses s as a path expression, and panics if it is invalid.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("jpath: %v", err))
	}
	return e
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		switch s.Op {
		case Member:
			fmt.Fprint(&buf, s.Op, s.Key)
		case QName:
			fmt.Fprintf(&buf, "['%s']", s.Key)
		case Index:
			fmt.Fprintf(&buf, "[%d]", s.Index)
		}
	}
	return buf.String()
}

// Args returns the steps of e as arguments for ast.Path.
func (e Expr) Args() []any {
	args := make([]any, len(e))
	for i, s := range e {
		if s.Op == Index {
			args[i] = s.Index
		} else {
			args[i] = s.Key
		}
	}
	return args
}

// Eval returns the value selected by e from v.
func (e Expr) Eval(v ast.Value) (ast.Value, error) { return ast.Path(v, e.Args()...) }

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "."); ok {
		if m := wordRE.FindStringSubmatch(t); m != nil {
			return Step{Op: Member, Key: m[1]}, t[len(m[0]):], nil
		}
		return Step{}, s, errors.New("invalid .name")
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		var out Step
		if m := indexRE.FindStringSubmatch(t); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return Step{}, s, fmt.Errorf("invalid index: %w", err)
			}
			out, t = Step{Op: Index, Index: n}, t[len(m[0]):]
		} else if m := quoteRE.FindStringSubmatch(t); m != nil {
			out, t = Step{Op: QName, Key: m[1]}, t[len(m[0]):]
		} else if m := wordRE.FindStringSubmatch(t); m != nil {
			out, t = Step{Op: QName, Key: m[1]}, t[len(m[0]):]
		} else {
			return Step{}, s, fmt.Errorf("invalid value: %q", t)
		}
		u, ok := strings.CutPrefix(t, "]")
		if !ok {
			return Step{}, s, errors.New("missing close bracket")
		}
		return out, u, nil
	}
	return Step{}, s, errors.New("invalid path step")
}

var (
	wordRE  = regexp.MustCompile(`^([\w-]+)`)
	indexRE = regexp.MustCompile(`^(-?\d+)`)
	quoteRE = regexp.MustCompile(`^'([^']*)'`)
)

// An Op is a path operator.
type Op byte

const (
	Invalid Op = iota // invalid operator
	Member            // member lookup (.)
	QName             // bracketed member lookup
	Index             // array index lookup
)

var opText = map[Op]string{
	Invalid: "invalid",
	Member:  ".",
	QName:   "qname",
	Index:   "index",
}

func (o Op) String() string {
	if s, ok := opText[o]; ok {
		return s
	}
	return opText[Invalid]
}

// A Step is a single step of a path expression.
type Step struct {
	Op    Op
	Key   string // for Member and QName
	Index int    // for Index
}
