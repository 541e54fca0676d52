// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package simeval

import "fmt"

type tokenType int

const (
	tokEOF tokenType = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPower // **
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	typ tokenType
	val string
	pos int
}

// tokenize splits a normalized expression body into tokens.
//
// The body is already lower-case. Only the characters the restricted
// grammar can use are accepted; anything else (semicolons, quotes,
// comparison operators, brackets) is a parse error. Numeric literals
// follow float syntax including an optional exponent, so "1e3" scans as
// a single number the way a general-purpose interpreter would read it.
func tokenize(body string) ([]token, error) {
	var toks []token
	for i := 0; i < len(body); {
		c := body[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ",", i})
			i++
		case c == '+':
			toks = append(toks, token{tokPlus, "+", i})
			i++
		case c == '-':
			toks = append(toks, token{tokMinus, "-", i})
			i++
		case c == '*':
			if i+1 < len(body) && body[i+1] == '*' {
				toks = append(toks, token{tokPower, "**", i})
				i += 2
			} else {
				toks = append(toks, token{tokStar, "*", i})
				i++
			}
		case c == '/':
			toks = append(toks, token{tokSlash, "/", i})
			i++
		case isDigit(c) || c == '.':
			j := scanNumber(body, i)
			if j < 0 {
				return nil, fmt.Errorf("%w: bad numeric literal at position %d", ErrParse, i)
			}
			toks = append(toks, token{tokNumber, body[i:j], i})
			i = j
		case isAlpha(c) || c == '_':
			j := i + 1
			for j < len(body) && (isAlpha(body[j]) || isDigit(body[j]) || body[j] == '_') {
				j++
			}
			toks = append(toks, token{tokIdent, body[i:j], i})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at position %d", ErrParse, c, i)
		}
	}
	return append(toks, token{tokEOF, "", len(body)}), nil
}

// scanNumber returns the index just past a numeric literal starting at i,
// or -1 when the characters do not form one (e.g. a lone ".").
func scanNumber(s string, i int) int {
	j := i
	sawDigit := false
	for j < len(s) && isDigit(s[j]) {
		j++
		sawDigit = true
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
			sawDigit = true
		}
	}
	if !sawDigit {
		return -1
	}
	// Optional exponent. The body is lower-case, so only 'e' can appear;
	// it is only consumed when digits follow, otherwise it stays an
	// identifier (the constant e).
	if j < len(s) && s[j] == 'e' {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
