// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/yieldchef/chef/builtin/solidity"
	"github.com/yieldchef/chef/chef"
)

// Event topics. Topic 1 is the user and topic 2 the pool id when the event has them.
var (
	DepositEvent             = chef.Keccak256([]byte("Deposit(address,uint256,uint256,uint256)"))
	WithdrawEvent            = chef.Keccak256([]byte("Withdraw(address,uint256,uint256)"))
	HarvestEvent             = chef.Keccak256([]byte("Harvest(address,uint256,uint256)"))
	EmergencyWithdrawEvent   = chef.Keccak256([]byte("EmergencyWithdraw(address,uint256,uint256,uint256)"))
	SettlementDeferredEvent  = chef.Keccak256([]byte("SettlementDeferred(address,uint256,uint256)"))
	PoolAddedEvent           = chef.Keccak256([]byte("PoolAdded(uint256,address,uint256,uint16)"))
	PoolUpdatedEvent         = chef.Keccak256([]byte("PoolUpdated(uint256,uint256,uint16)"))
	EmissionRateChangedEvent = chef.Keccak256([]byte("EmissionRateChanged(uint256,uint256)"))
)

// EventNames maps topics to event names.
var EventNames = map[chef.Bytes32]string{
	DepositEvent:             "Deposit",
	WithdrawEvent:            "Withdraw",
	HarvestEvent:             "Harvest",
	EmergencyWithdrawEvent:   "EmergencyWithdraw",
	SettlementDeferredEvent:  "SettlementDeferred",
	PoolAddedEvent:           "PoolAdded",
	PoolUpdatedEvent:         "PoolUpdated",
	EmissionRateChangedEvent: "EmissionRateChanged",
}

// DepositData is the payload of Deposit.
type DepositData struct {
	Net *big.Int
	Fee *big.Int
}

// AmountData is the payload of Withdraw, Harvest and SettlementDeferred.
type AmountData struct {
	Amount *big.Int
}

// EmergencyWithdrawData is the payload of EmergencyWithdraw.
type EmergencyWithdrawData struct {
	Amount    *big.Int
	Forfeited *big.Int
}

// PoolData is the payload of PoolAdded and PoolUpdated.
type PoolData struct {
	Asset  chef.Address
	Weight uint64
	FeeBP  uint16
}

// RateData is the payload of EmissionRateChanged.
type RateData struct {
	Previous *big.Int
	Next     *big.Int
}

func userTopics(sig chef.Bytes32, user chef.Address, poolID uint64) []chef.Bytes32 {
	return []chef.Bytes32{
		sig,
		chef.BytesToBytes32(user.Bytes()),
		chef.BytesToBytes32(solidity.Uint64Key(poolID).Bytes()),
	}
}

func poolTopics(sig chef.Bytes32, poolID uint64) []chef.Bytes32 {
	return []chef.Bytes32{
		sig,
		chef.BytesToBytes32(solidity.Uint64Key(poolID).Bytes()),
	}
}
