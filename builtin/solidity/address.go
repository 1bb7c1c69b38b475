// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "github.com/yieldchef/chef/chef"

// Address is a single address slot.
type Address struct {
	raw *Raw[chef.Address]
}

func NewAddress(context *Context, pos chef.Bytes32) *Address {
	return &Address{raw: NewRaw[chef.Address](context, pos)}
}

func (a *Address) Get() (chef.Address, error) {
	return a.raw.Get()
}

func (a *Address) Set(addr chef.Address) error {
	return a.raw.Set(addr)
}
