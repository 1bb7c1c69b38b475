// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"github.com/yieldchef/chef/builtin/reverts"
	"github.com/yieldchef/chef/builtin/solidity"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/log"
	"github.com/yieldchef/chef/state"
	"github.com/yieldchef/chef/tx"
)

var (
	logger = log.WithContext("pkg", "admin")

	slotAdmin = chef.BytesToBytes32([]byte("admin"))

	// AdminTransferredEvent is the topic of AdminTransferred(address indexed previous, address indexed next).
	AdminTransferredEvent = chef.Keccak256([]byte("AdminTransferred(address,address)"))
)

// Gate authorizes admin-only mutations.
type Gate interface {
	Require(caller chef.Address) error
}

// Admin keeps the admin principal in state.
type Admin struct {
	sctx  *solidity.Context
	admin *solidity.Address
}

var _ Gate = (*Admin)(nil)

// New create a new instance.
func New(addr chef.Address, state *state.State, journal *tx.Journal) *Admin {
	sctx := solidity.NewContext(addr, state, journal)
	return &Admin{
		sctx:  sctx,
		admin: solidity.NewAddress(sctx, slotAdmin),
	}
}

// Get returns the admin principal.
func (a *Admin) Get() (chef.Address, error) {
	return a.admin.Get()
}

// Set sets the admin principal without authorization, at genesis.
func (a *Admin) Set(admin chef.Address) error {
	return a.admin.Set(admin)
}

// Require fails with Unauthorized unless caller is the admin.
func (a *Admin) Require(caller chef.Address) error {
	admin, err := a.admin.Get()
	if err != nil {
		return err
	}
	if admin.IsZero() || caller != admin {
		return reverts.New(reverts.Unauthorized, "caller is not the admin")
	}
	return nil
}

// Transfer hands the admin role over to next.
func (a *Admin) Transfer(caller, next chef.Address) error {
	if err := a.Require(caller); err != nil {
		return err
	}
	if next.IsZero() {
		return reverts.New(reverts.InvalidAmount, "new admin is the zero address")
	}
	if err := a.admin.Set(next); err != nil {
		return err
	}
	logger.Info("admin transferred", "previous", caller, "next", next)
	return a.sctx.Emit([]chef.Bytes32{
		AdminTransferredEvent,
		chef.BytesToBytes32(caller.Bytes()),
		chef.BytesToBytes32(next.Bytes()),
	}, []any{})
}
