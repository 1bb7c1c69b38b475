// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"errors"
	"math"
)

type sequence int64

const maxOpSeq = math.MaxInt64 >> 24

func newSequence(opSeq uint64, index uint32) (sequence, error) {
	if opSeq > maxOpSeq {
		return 0, errors.New("operation sequence too large")
	}
	if index > 0xffffff {
		return 0, errors.New("log index too large")
	}
	return (sequence(opSeq) << 24) | sequence(index), nil
}

func (s sequence) OpSeq() uint64 {
	return uint64(s >> 24)
}

func (s sequence) Index() uint32 {
	return uint32(s & 0xffffff)
}
