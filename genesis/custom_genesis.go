// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/yieldchef/chef/chef"
)

// CustomGenesis is user customized genesis, loaded from yaml.
type CustomGenesis struct {
	LaunchTime   uint64       `yaml:"launchTime" json:"launchTime"`
	TickInterval uint64       `yaml:"tickInterval" json:"tickInterval"`
	Admin        chef.Address `yaml:"admin" json:"admin"`
	FeeSink      chef.Address `yaml:"feeSink" json:"feeSink"`
	BurnSink     chef.Address `yaml:"burnSink" json:"burnSink"`

	Reward     Token      `yaml:"reward" json:"reward"`
	Presale    Token      `yaml:"presale" json:"presale"`
	Farm       Farm       `yaml:"farm" json:"farm"`
	Redemption Redemption `yaml:"redemption" json:"redemption"`
	Assets     []Asset    `yaml:"assets" json:"assets"`
}

// Token is the setup of a capped token ledger.
type Token struct {
	Name      string           `yaml:"name" json:"name"`
	Symbol    string           `yaml:"symbol" json:"symbol"`
	Decimals  uint8            `yaml:"decimals" json:"decimals"`
	MaxSupply *HexOrDecimal256 `yaml:"maxSupply" json:"maxSupply"`
	Premint   []Allocation     `yaml:"premint" json:"premint"`
}

// Allocation credits an amount to an address.
type Allocation struct {
	Address chef.Address     `yaml:"address" json:"address"`
	Amount  *HexOrDecimal256 `yaml:"amount" json:"amount"`
}

// Farm is the emission setup and the initial pools.
type Farm struct {
	RewardPerTick *HexOrDecimal256 `yaml:"rewardPerTick" json:"rewardPerTick"`
	StartTick     uint64           `yaml:"startTick" json:"startTick"`
	Pools         []Pool           `yaml:"pools" json:"pools"`
}

// Pool is an initial pool.
type Pool struct {
	Asset        chef.Address `yaml:"asset" json:"asset"`
	Weight       uint64       `yaml:"weight" json:"weight"`
	DepositFeeBP uint16       `yaml:"depositFeeBP" json:"depositFeeBP"`
}

// Redemption is the redemption schedule and its reward reserve.
type Redemption struct {
	StartTick      uint64           `yaml:"startTick" json:"startTick"`
	PresaleEndTick uint64           `yaml:"presaleEndTick" json:"presaleEndTick"`
	Reserve        *HexOrDecimal256 `yaml:"reserve" json:"reserve"`
}

// Asset credits stakeable assets held in custody.
type Asset struct {
	Asset   chef.Address `yaml:"asset" json:"asset"`
	Holders []Allocation `yaml:"holders" json:"holders"`
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
type HexOrDecimal256 math.HexOrDecimal256

// NewHexOrDecimal256 wraps a copy of v.
func NewHexOrDecimal256(v *big.Int) *HexOrDecimal256 {
	return (*HexOrDecimal256)(new(big.Int).Set(v))
}

// Int returns the value, zero for nil.
func (i *HexOrDecimal256) Int() *big.Int {
	if i == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(i))
}

// UnmarshalText implements encoding.TextUnmarshaler, used by yaml.
func (i *HexOrDecimal256) UnmarshalText(input []byte) error {
	bigint, ok := math.ParseBig256(string(input))
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (i HexOrDecimal256) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%#x", (*big.Int)(&i))), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalJSON(input []byte) error {
	var hex string
	if err := json.Unmarshal(input, &hex); err != nil {
		if err = (*big.Int)(i).UnmarshalJSON(input); err != nil {
			return err
		}
		return nil
	}
	return i.UnmarshalText([]byte(hex))
}

// MarshalJSON implements the json.Marshaler interface.
func (i HexOrDecimal256) MarshalJSON() ([]byte, error) {
	text, err := i.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}
