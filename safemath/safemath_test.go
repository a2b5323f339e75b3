// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package safemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/lockvest/reverts"
)

func TestAdd(t *testing.T) {
	v, err := Add[uint64](1, 2)
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), v)

	v, err = Add[uint64](math.MaxUint64, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), v)

	_, err = Add[uint64](math.MaxUint64, 1)
	assert.ErrorIs(t, err, reverts.ErrMathOverflow)

	_, err = Add[uint8](200, 56)
	assert.ErrorIs(t, err, reverts.ErrMathOverflow)
}

func TestSub(t *testing.T) {
	v, err := Sub[uint64](5, 5)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	_, err = Sub[uint64](4, 5)
	assert.ErrorIs(t, err, reverts.ErrMathOverflow)
	assert.Equal(t, reverts.KindArithmetic, reverts.KindOf(err))
}

func TestMul(t *testing.T) {
	v, err := Mul[uint64](0, math.MaxUint64)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	v, err = Mul[uint64](1<<32-1, 1<<32+1)
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), v)

	_, err = Mul[uint64](1<<32, 1<<32)
	assert.ErrorIs(t, err, reverts.ErrMathOverflow)
}

func TestMulDiv(t *testing.T) {
	v, err := MulDiv(2100, 5, 21)
	assert.NoError(t, err)
	assert.Equal(t, uint64(500), v)

	// intermediate exceeds 64 bits, quotient does not
	v, err = MulDiv(math.MaxUint64, 10, 20)
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64/2), v)

	v, err = MulMulDiv(1000, 10, 15_768_000, 31_536_000)
	assert.NoError(t, err)
	assert.Equal(t, uint64(5000), v)

	v, err = MulMulDiv(math.MaxUint64, math.MaxUint64, math.MaxUint64, math.MaxUint64)
	assert.ErrorIs(t, err, reverts.ErrMathOverflow)
	assert.Zero(t, v)

	_, err = MulDiv(math.MaxUint64, 2, 1)
	assert.ErrorIs(t, err, reverts.ErrMathOverflow)

	_, err = MulDiv(1, 1, 0)
	assert.ErrorIs(t, err, reverts.ErrMathOverflow)
}

func TestToUint8(t *testing.T) {
	v, err := ToUint8(21)
	assert.NoError(t, err)
	assert.Equal(t, uint8(21), v)

	_, err = ToUint8(256)
	assert.ErrorIs(t, err, reverts.ErrMathOverflow)
}
