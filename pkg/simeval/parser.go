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

import (
	"fmt"
	"math"
	"strconv"
)

// The grammar is a strict allowlist. Only these productions exist:
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/') unary)*
//	unary   := ('-' | '+') unary | power
//	power   := primary ('**' unary)?
//	primary := NUMBER | 'x' | 'pi' | 'e'
//	         | FUNC '(' expr (',' expr)* ')'
//	         | '(' expr ')'
//
// '**' is right-associative and binds tighter than unary minus on its
// left but not on its right, so "-x**2" is -(x**2) and "2**-1" is 0.5,
// matching the conventional arithmetic reading.

type node interface {
	eval(x float64) (float64, error)
}

type numNode struct{ val float64 }

type varNode struct{}

type unaryNode struct {
	neg     bool
	operand node
}

type binaryNode struct {
	op  tokenType
	lhs node
	rhs node
}

type callNode struct {
	fn   string
	args []node
}

// funcArity maps each permitted function name to its minimum and maximum
// argument count. log optionally takes a base, mirroring the math
// library the equations were written against.
var funcArity = map[string][2]int{
	"exp":  {1, 1},
	"log":  {1, 2},
	"sqrt": {1, 1},
	"pow":  {2, 2},
	"abs":  {1, 1},
	"sin":  {1, 1},
	"cos":  {1, 1},
	"tan":  {1, 1},
}

// constants resolved at parse time.
var constValues = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// Expr is a parsed, reusable equation body. Eval may be called any
// number of times and concurrently; the tree is immutable after Parse.
type Expr struct {
	root node
}

// Eval evaluates the expression at x. The result is always finite on
// success; domain errors and overflow return an error wrapping ErrEval.
func (e *Expr) Eval(x float64) (float64, error) {
	v, err := e.root.eval(x)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result is not finite", ErrEval)
	}
	return v, nil
}

// Parse compiles a normalized expression body into an Expr.
//
// The body must be a single arithmetic expression over the allowlisted
// symbols. Anything a hostile author could try (attribute access,
// imports, lambdas, statement chaining, unknown names) has no parse and
// returns an error wrapping ErrParse.
func Parse(body string) (*Expr, error) {
	toks, err := tokenize(body)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrParse, p.peek().val, p.peek().pos)
	}
	return &Expr{root: root}, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(typ tokenType, what string) error {
	if p.peek().typ != typ {
		return fmt.Errorf("%w: expected %s at position %d", ErrParse, what, p.peek().pos)
	}
	p.next()
	return nil
}

func (p *parser) parseExpr() (node, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().typ {
		case tokPlus, tokMinus:
			op := p.next().typ
			rhs, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			lhs = &binaryNode{op: op, lhs: lhs, rhs: rhs}
		default:
			return lhs, nil
		}
	}
}

func (p *parser) parseTerm() (node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().typ {
		case tokStar, tokSlash:
			op := p.next().typ
			rhs, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			lhs = &binaryNode{op: op, lhs: lhs, rhs: rhs}
		default:
			return lhs, nil
		}
	}
}

func (p *parser) parseUnary() (node, error) {
	switch p.peek().typ {
	case tokMinus:
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{neg: true, operand: operand}, nil
	case tokPlus:
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().typ == tokPower {
		p.next()
		// Right-associative, and the exponent may carry its own sign.
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: tokPower, lhs: base, rhs: exp}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (node, error) {
	t := p.peek()
	switch t.typ {
	case tokNumber:
		p.next()
		v, err := strconv.ParseFloat(t.val, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad numeric literal %q", ErrParse, t.val)
		}
		return &numNode{val: v}, nil
	case tokIdent:
		p.next()
		if p.peek().typ == tokLParen {
			return p.parseCall(t)
		}
		if t.val == "x" {
			return &varNode{}, nil
		}
		if v, ok := constValues[t.val]; ok {
			return &numNode{val: v}, nil
		}
		return nil, fmt.Errorf("%w: unknown name %q at position %d", ErrParse, t.val, t.pos)
	case tokLParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrParse, t.val, t.pos)
	}
}

func (p *parser) parseCall(name token) (node, error) {
	arity, ok := funcArity[name.val]
	if !ok {
		return nil, fmt.Errorf("%w: unknown function %q at position %d", ErrParse, name.val, name.pos)
	}
	if err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	var args []node
	if p.peek().typ != tokRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().typ != tokComma {
				break
			}
			p.next()
		}
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	if len(args) < arity[0] || len(args) > arity[1] {
		return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrParse, name.val, arity[0], len(args))
	}
	return &callNode{fn: name.val, args: args}, nil
}
