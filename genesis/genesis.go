// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/yieldchef/chef/builtin"
	"github.com/yieldchef/chef/builtin/token"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/state"
	"github.com/yieldchef/chef/tx"
)

// Genesis to build the initial ledger state.
type Genesis struct {
	builder *Builder
	id      chef.Bytes32
	name    string
}

// ID returns the genesis id.
func (g *Genesis) ID() chef.Bytes32 {
	return g.id
}

// Name returns the network name.
func (g *Genesis) Name() string {
	return g.name
}

// LaunchTime returns the unix time of tick zero.
func (g *Genesis) LaunchTime() uint64 {
	return g.builder.launchTime
}

// TickInterval returns the tick length in seconds.
func (g *Genesis) TickInterval() uint64 {
	return g.builder.tickInterval
}

// Build writes the genesis state. The caller commits the stage.
func (g *Genesis) Build(st *state.State, journal *tx.Journal) error {
	return g.builder.Build(st, journal)
}

// LoadCustomGenesis reads a yaml genesis file.
func LoadCustomGenesis(path string) (*CustomGenesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var gen CustomGenesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &gen, nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.Admin.IsZero() {
		return nil, errors.New("admin address required")
	}
	if gen.TickInterval == 0 {
		return nil, errors.New("tick interval must be positive")
	}
	if gen.Reward.MaxSupply == nil || gen.Presale.MaxSupply == nil {
		return nil, errors.New("token max supply required")
	}
	if gen.Farm.RewardPerTick == nil {
		return nil, errors.New("reward per tick required")
	}
	if gen.Redemption.PresaleEndTick < gen.Redemption.StartTick {
		return nil, errors.New("presale end tick before redemption start tick")
	}

	builder := new(Builder).
		LaunchTime(gen.LaunchTime).
		TickInterval(gen.TickInterval).
		State(func(n *builtin.Natives) error {
			return n.Admin.Set(gen.Admin)
		}).
		State(func(n *builtin.Natives) error {
			if err := initToken(n.Reward, &gen.Reward, builtin.Farm.Address, gen.BurnSink); err != nil {
				return errors.Wrap(err, "reward")
			}
			if reserve := gen.Redemption.Reserve.Int(); reserve.Sign() > 0 {
				return n.Reward.Premint(builtin.Redemption.Address, reserve)
			}
			return nil
		}).
		State(func(n *builtin.Natives) error {
			// the presale token is never minted after genesis
			return errors.Wrap(initToken(n.Presale, &gen.Presale, gen.Admin, gen.BurnSink), "presale")
		}).
		State(func(n *builtin.Natives) error {
			return n.Farm.Initialize(gen.Farm.RewardPerTick.Int(), gen.Farm.StartTick, gen.FeeSink)
		}).
		State(func(n *builtin.Natives) error {
			return n.Redemption.Initialize(gen.Redemption.StartTick, gen.Redemption.PresaleEndTick)
		}).
		State(func(n *builtin.Natives) error {
			for _, a := range gen.Assets {
				for _, h := range a.Holders {
					if err := n.Custody.Credit(a.Asset, h.Address, h.Amount.Int()); err != nil {
						return err
					}
				}
			}
			return nil
		}).
		State(func(n *builtin.Natives) error {
			for _, p := range gen.Farm.Pools {
				if _, err := n.Farm.AddPool(gen.Admin, p.Asset, p.Weight, p.DepositFeeBP, false, 0); err != nil {
					return errors.Wrapf(err, "add pool %v", p.Asset)
				}
			}
			return nil
		})

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, "customnet"}, nil
}

func initToken(t *token.Token, cfg *Token, authority, burnSink chef.Address) error {
	meta := &token.Meta{Name: cfg.Name, Symbol: cfg.Symbol, Decimals: cfg.Decimals}
	if err := t.Initialize(meta, cfg.MaxSupply.Int(), authority, burnSink); err != nil {
		return err
	}
	for _, a := range cfg.Premint {
		if err := t.Premint(a.Address, a.Amount.Int()); err != nil {
			return err
		}
	}
	return nil
}
