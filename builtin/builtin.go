// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/yieldchef/chef/builtin/admin"
	"github.com/yieldchef/chef/builtin/farm"
	"github.com/yieldchef/chef/builtin/redemption"
	"github.com/yieldchef/chef/builtin/token"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/custody"
	"github.com/yieldchef/chef/state"
	"github.com/yieldchef/chef/tx"
)

// Builtin contracts binding.
var (
	Admin      = &adminContract{newContract("Admin")}
	Reward     = &tokenContract{newContract("Reward")}
	Presale    = &tokenContract{newContract("Presale")}
	Custody    = &custodyContract{newContract("Custody")}
	Farm       = &farmContract{newContract("Farm")}
	Redemption = &redemptionContract{newContract("Redemption")}
)

type (
	adminContract      struct{ *contract }
	tokenContract      struct{ *contract }
	custodyContract    struct{ *contract }
	farmContract       struct{ *contract }
	redemptionContract struct{ *contract }
)

func (a *adminContract) Native(state *state.State, journal *tx.Journal) *admin.Admin {
	return admin.New(a.Address, state, journal)
}

func (t *tokenContract) Native(state *state.State, journal *tx.Journal) *token.Token {
	return token.New(t.Address, state, journal)
}

// Native returns the custody ledger. Staked assets are held by the farm.
func (c *custodyContract) Native(state *state.State, journal *tx.Journal) *custody.Ledger {
	return custody.New(c.Address, Farm.Address, state, journal)
}

func (f *farmContract) Native(state *state.State, journal *tx.Journal) *farm.Farm {
	return farm.New(f.Address, state, journal,
		Reward.Native(state, journal),
		Custody.Native(state, journal),
		Admin.Native(state, journal),
	)
}

func (r *redemptionContract) Native(state *state.State, journal *tx.Journal) *redemption.Redemption {
	return redemption.New(r.Address, state, journal,
		Reward.Native(state, journal),
		Presale.Native(state, journal),
	)
}

// Natives are all builtins bound to the state and journal of one operation.
type Natives struct {
	Admin      *admin.Admin
	Reward     *token.Token
	Presale    *token.Token
	Custody    *custody.Ledger
	Farm       *farm.Farm
	Redemption *redemption.Redemption
}

// Bind binds every builtin to state and journal.
func Bind(state *state.State, journal *tx.Journal) *Natives {
	return &Natives{
		Admin:      Admin.Native(state, journal),
		Reward:     Reward.Native(state, journal),
		Presale:    Presale.Native(state, journal),
		Custody:    Custody.Native(state, journal),
		Farm:       Farm.Native(state, journal),
		Redemption: Redemption.Native(state, journal),
	}
}

// Names maps builtin addresses to contract names.
func Names() map[chef.Address]string {
	names := make(map[chef.Address]string)
	for _, c := range []*contract{Admin.contract, Reward.contract, Presale.contract, Custody.contract, Farm.contract, Redemption.contract} {
		names[c.Address] = c.name
	}
	return names
}
