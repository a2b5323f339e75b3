// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package safemath provides checked unsigned arithmetic. Every failure is
// reported as reverts.ErrMathOverflow; nothing saturates or wraps.
package safemath

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/vechain/lockvest/reverts"
)

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// MaxUint returns the maximum value of an unsigned integer of type T.
func MaxUint[T Unsigned]() T {
	return ^T(0)
}

// Add returns a + b, or ErrMathOverflow.
func Add[T Unsigned](a, b T) (T, error) {
	if a > MaxUint[T]()-b {
		return 0, reverts.ErrMathOverflow
	}
	return a + b, nil
}

// Sub returns a - b, or ErrMathOverflow when b > a.
func Sub[T Unsigned](a, b T) (T, error) {
	if a < b {
		return 0, reverts.ErrMathOverflow
	}
	return a - b, nil
}

// Mul returns a * b, or ErrMathOverflow.
func Mul[T Unsigned](a, b T) (T, error) {
	if b != 0 && a > MaxUint[T]()/b {
		return 0, reverts.ErrMathOverflow
	}
	return a * b, nil
}

// MulDiv returns floor(x * y / denom) computed with a 256-bit intermediate.
// The quotient must fit in 64 bits and denom must be non-zero.
func MulDiv(x, y, denom uint64) (uint64, error) {
	return mulDiv(denom, x, y)
}

// MulMulDiv returns floor(x * y * z / denom) computed with a 256-bit intermediate.
func MulMulDiv(x, y, z, denom uint64) (uint64, error) {
	return mulDiv(denom, x, y, z)
}

func mulDiv(denom uint64, factors ...uint64) (uint64, error) {
	if denom == 0 {
		return 0, reverts.ErrMathOverflow
	}
	acc := uint256.NewInt(1)
	for _, f := range factors {
		// three u64 factors never exceed 192 bits
		acc.Mul(acc, uint256.NewInt(f))
	}
	acc.Div(acc, uint256.NewInt(denom))
	if !acc.IsUint64() {
		return 0, reverts.ErrMathOverflow
	}
	return acc.Uint64(), nil
}

// ToUint8 narrows v, or returns ErrMathOverflow.
func ToUint8(v uint64) (uint8, error) {
	if v > math.MaxUint8 {
		return 0, reverts.ErrMathOverflow
	}
	return uint8(v), nil
}
