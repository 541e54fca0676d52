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
)

// Numeric failure semantics mirror the math library the equations were
// authored against: division by zero, log of a non-positive number, sqrt
// of a negative number, and pow outside the real domain are errors, and
// any operation that leaves the finite range (overflow to ±Inf, NaN) is
// an error rather than a propagating non-finite value. Eval's top level
// re-checks the final result, so a successful evaluation is always a
// finite float64.

func (n *numNode) eval(float64) (float64, error) { return n.val, nil }

func (*varNode) eval(x float64) (float64, error) { return x, nil }

func (u *unaryNode) eval(x float64) (float64, error) {
	v, err := u.operand.eval(x)
	if err != nil {
		return 0, err
	}
	if u.neg {
		return -v, nil
	}
	return v, nil
}

func (b *binaryNode) eval(x float64) (float64, error) {
	lhs, err := b.lhs.eval(x)
	if err != nil {
		return 0, err
	}
	rhs, err := b.rhs.eval(x)
	if err != nil {
		return 0, err
	}
	var v float64
	switch b.op {
	case tokPlus:
		v = lhs + rhs
	case tokMinus:
		v = lhs - rhs
	case tokStar:
		v = lhs * rhs
	case tokSlash:
		if rhs == 0 {
			return 0, fmt.Errorf("%w: division by zero", ErrEval)
		}
		v = lhs / rhs
	case tokPower:
		v = math.Pow(lhs, rhs)
	default:
		return 0, fmt.Errorf("%w: unknown operator", ErrEval)
	}
	return checkFinite(v)
}

func (c *callNode) eval(x float64) (float64, error) {
	args := make([]float64, len(c.args))
	for i, a := range c.args {
		v, err := a.eval(x)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	var v float64
	switch c.fn {
	case "exp":
		v = math.Exp(args[0])
	case "log":
		if args[0] <= 0 {
			return 0, fmt.Errorf("%w: log of non-positive number", ErrEval)
		}
		if len(args) == 2 {
			if args[1] <= 0 || args[1] == 1 {
				return 0, fmt.Errorf("%w: invalid log base", ErrEval)
			}
			v = math.Log(args[0]) / math.Log(args[1])
		} else {
			v = math.Log(args[0])
		}
	case "sqrt":
		if args[0] < 0 {
			return 0, fmt.Errorf("%w: sqrt of negative number", ErrEval)
		}
		v = math.Sqrt(args[0])
	case "pow":
		v = math.Pow(args[0], args[1])
	case "abs":
		v = math.Abs(args[0])
	case "sin":
		v = math.Sin(args[0])
	case "cos":
		v = math.Cos(args[0])
	case "tan":
		v = math.Tan(args[0])
	default:
		return 0, fmt.Errorf("%w: unknown function %q", ErrEval, c.fn)
	}
	return checkFinite(v)
}

func checkFinite(v float64) (float64, error) {
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: overflow to infinity", ErrEval)
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result is not a number", ErrEval)
	}
	return v, nil
}
