// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import "math"

// Constants of the farm accounting rules.
const (
	// RewardScale is the fixed point scale of every pool's reward-per-share accumulator.
	RewardScale uint64 = 1e12

	// MaxDepositFeeBP is the upper bound of a pool's deposit fee, in basis points.
	MaxDepositFeeBP uint16 = 401
	// FeeDenominator converts basis points into a ratio.
	FeeDenominator uint64 = 10000

	// EmissionOpen marks an emission end tick that has not been reached yet.
	EmissionOpen uint64 = math.MaxUint64

	// DefaultTickInterval is the wall-clock length of a tick in seconds, like a block interval.
	DefaultTickInterval uint64 = 3
)
