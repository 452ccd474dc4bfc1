// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	errExprParse = errors.New("expression syntax error")
	errExprValue = errors.New("expression value out of range")
)

// Maximum number of starlark steps an expression may take.
const exprMaxSteps = 10000

// An exprEvaluator evaluates monitor expressions. Monitor number syntax
// ($hex, %binary, 'c' characters, hex mode) is rewritten into a starlark
// expression, which is then evaluated with the CPU registers predeclared.
type exprEvaluator struct {
	hexMode bool
}

func newExprEvaluator() *exprEvaluator {
	return &exprEvaluator{}
}

// A resolver supplies the values of the identifiers an expression may
// reference.
type resolver interface {
	identifiers() starlark.StringDict
}

// Eval evaluates the expression and returns its integer result.
func (e *exprEvaluator) Eval(expr string, r resolver) (int64, error) {
	prog, err := e.rewrite(expr)
	if err != nil {
		return 0, err
	}

	thread := starlark.Thread{Name: "expr"}
	thread.SetMaxExecutionSteps(exprMaxSteps)
	opts := syntax.FileOptions{}
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", "rc="+prog+"\n", r.identifiers())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errExprParse, err)
	}

	rc, ok := dict["rc"].(starlark.Int)
	if !ok {
		return 0, errExprParse
	}
	v, ok := rc.Int64()
	if !ok {
		return 0, errExprValue
	}
	return v, nil
}

type tokenType byte

const (
	tokenNil tokenType = iota
	tokenIdentifier
	tokenNumber
	tokenOp
	tokenLParen
	tokenRParen
)

// lexeme identifiers
const (
	lNil byte = iota
	lNum
	lCha
	lIde
	lLPa
	lRPa
	lOp1
	lDiv
	lMod
	lShf
)

// A table mapping lexeme identifiers to token types and rewriters.
var lexeme = []struct {
	TokenType tokenType
	Rewrite   func(e *exprEvaluator, t tstring, prev tokenType) (out string, remain tstring, err error)
}{
	/*lNil*/ {TokenType: tokenNil},
	/*lNum*/ {TokenType: tokenNumber, Rewrite: (*exprEvaluator).rewriteNumber},
	/*lCha*/ {TokenType: tokenNumber, Rewrite: (*exprEvaluator).rewriteChar},
	/*lIde*/ {TokenType: tokenIdentifier, Rewrite: (*exprEvaluator).rewriteIdentifier},
	/*lLPa*/ {TokenType: tokenLParen},
	/*lRPa*/ {TokenType: tokenRParen},
	/*lOp1*/ {TokenType: tokenOp},
	/*lDiv*/ {TokenType: tokenOp, Rewrite: (*exprEvaluator).rewriteDivide},
	/*lMod*/ {TokenType: tokenOp, Rewrite: (*exprEvaluator).rewriteModulo},
	/*lShf*/ {TokenType: tokenOp, Rewrite: (*exprEvaluator).rewriteShift},
}

// A table mapping the first char of a lexeme to a lexeme identifier.
var lex0 = [96]byte{
	lNil, lNil, lNil, lNil, lNum, lMod, lOp1, lCha, // 32..39
	lLPa, lRPa, lOp1, lOp1, lNil, lOp1, lIde, lDiv, // 40..47
	lNum, lNum, lNum, lNum, lNum, lNum, lNum, lNum, // 48..55
	lNum, lNum, lNil, lNil, lShf, lNil, lShf, lNil, // 56..63
	lNil, lIde, lIde, lIde, lIde, lIde, lIde, lIde, // 64..71
	lIde, lIde, lIde, lIde, lIde, lIde, lIde, lIde, // 72..79
	lIde, lIde, lIde, lIde, lIde, lIde, lIde, lIde, // 80..87
	lIde, lIde, lIde, lNil, lNil, lNil, lOp1, lIde, // 88..95
	lNil, lIde, lIde, lIde, lIde, lIde, lIde, lIde, // 96..103
	lIde, lIde, lIde, lIde, lIde, lIde, lIde, lIde, // 104..111
	lIde, lIde, lIde, lIde, lIde, lIde, lIde, lIde, // 112..119
	lIde, lIde, lIde, lNil, lOp1, lNil, lOp1, lNil, // 120..127
}

// Rewrite a monitor expression as a starlark expression. Only the lexemes
// in the table above are accepted.
func (e *exprEvaluator) rewrite(expr string) (string, error) {
	var b strings.Builder
	prev := tokenNil

	t := tstring(expr).consumeWhitespace()
	if len(t) == 0 {
		return "", errExprParse
	}

	for len(t) > 0 {
		if t[0] < 32 || t[0] > 127 {
			return "", errExprParse
		}
		lex := lexeme[lex0[t[0]-32]]
		if lex.TokenType == tokenNil {
			return "", errExprParse
		}

		var out string
		if lex.Rewrite == nil {
			out, t = string(t[0]), t.consume(1)
		} else {
			var err error
			out, t, err = lex.Rewrite(e, t, prev)
			if err != nil {
				return "", err
			}
		}

		// A modulo in unary position introduces a binary number.
		tt := lex.TokenType
		if strings.HasPrefix(out, "0b") {
			tt = tokenNumber
		}

		b.WriteString(out)
		b.WriteByte(' ')
		prev = tt
		t = t.consumeWhitespace()
	}

	return b.String(), nil
}

func (e *exprEvaluator) rewriteNumber(t tstring, prev tokenType) (out string, remain tstring, err error) {
	base, fn, num := 10, decimal, t

	if e.hexMode {
		base, fn = 16, hexadecimal
	}

	switch num[0] {
	case '$':
		if len(num) < 2 {
			return "", t, errExprParse
		}
		base, fn, num = 16, hexadecimal, num.consume(1)

	case '0':
		if len(num) > 1 && (num[1] == 'x' || num[1] == 'b' || num[1] == 'd') {
			if len(num) < 3 {
				return "", t, errExprParse
			}
			switch num[1] {
			case 'x':
				base, fn = 16, hexadecimal
			case 'b':
				base, fn = 2, binary
			case 'd':
				base, fn = 10, decimal
			}
			num = num.consume(2)
		}
	}

	num, remain = num.consumeWhile(fn)
	if num == "" {
		return "", t, errExprParse
	}

	v, err := strconv.ParseInt(string(num), base, 64)
	if err != nil {
		return "", t, errExprParse
	}
	return strconv.FormatInt(v, 10), remain, nil
}

func (e *exprEvaluator) rewriteChar(t tstring, prev tokenType) (out string, remain tstring, err error) {
	if len(t) < 3 || t[2] != '\'' {
		return "", t, errExprParse
	}
	return strconv.Itoa(int(t[1])), t.consume(3), nil
}

func (e *exprEvaluator) rewriteIdentifier(t tstring, prev tokenType) (out string, remain tstring, err error) {
	if e.hexMode && hexadecimal(t[0]) {
		if out, remain, err = e.rewriteNumber(t, prev); err == nil {
			if len(remain) == 0 || !identifier(remain[0]) {
				return out, remain, nil
			}
		}
	}

	var id tstring
	id, remain = t.consumeWhile(identifier)
	if id == "." {
		return "pc", remain, nil
	}
	if strings.ContainsRune(string(id), '.') {
		return "", t, errExprParse
	}
	return strings.ToLower(string(id)), remain, nil
}

// Integer division.
func (e *exprEvaluator) rewriteDivide(t tstring, prev tokenType) (out string, remain tstring, err error) {
	return "//", t.consume(1), nil
}

// The % character is a binary number prefix in unary position and the
// modulo operator otherwise.
func (e *exprEvaluator) rewriteModulo(t tstring, prev tokenType) (out string, remain tstring, err error) {
	if prev == tokenOp || prev == tokenLParen || prev == tokenNil {
		num, rest := t.consume(1).consumeWhile(binary)
		if num == "" {
			return "", t, errExprParse
		}
		return "0b" + string(num), rest, nil
	}
	return "%", t.consume(1), nil
}

func (e *exprEvaluator) rewriteShift(t tstring, prev tokenType) (out string, remain tstring, err error) {
	if len(t) < 2 || t[1] != t[0] {
		return "", t, errExprParse
	}
	return string(t[:2]), t.consume(2), nil
}

//
// tstring
//

type tstring string

func (t tstring) consume(n int) tstring {
	return t[n:]
}

func (t tstring) consumeWhitespace() tstring {
	return t.consume(t.scanWhile(whitespace))
}

func (t tstring) scanWhile(fn func(c byte) bool) int {
	i := 0
	for ; i < len(t) && fn(t[i]); i++ {
	}
	return i
}

func (t tstring) consumeWhile(fn func(c byte) bool) (consumed, remain tstring) {
	i := t.scanWhile(fn)
	return t[:i], t[i:]
}

func whitespace(c byte) bool {
	return c == ' ' || c == '\t'
}

func decimal(c byte) bool {
	return (c >= '0' && c <= '9')
}

func hexadecimal(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func binary(c byte) bool {
	return c == '0' || c == '1'
}

func identifier(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '.'
}
