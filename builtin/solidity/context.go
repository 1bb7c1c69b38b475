// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/state"
	"github.com/yieldchef/chef/tx"
)

// Context binds a builtin address to the state and the journal of the running operation.
type Context struct {
	address chef.Address
	state   *state.State
	journal *tx.Journal
}

// Revision identifies a checkpoint of both state and journal.
type Revision struct {
	state   int
	journal int
}

func NewContext(address chef.Address, state *state.State, journal *tx.Journal) *Context {
	if journal == nil {
		journal = tx.NewJournal()
	}
	return &Context{
		address: address,
		state:   state,
		journal: journal,
	}
}

func (c *Context) Address() chef.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Journal() *tx.Journal {
	return c.journal
}

// Emit records an event of this builtin. data is rlp encoded.
func (c *Context) Emit(topics []chef.Bytes32, data any) error {
	enc, err := rlp.EncodeToBytes(data)
	if err != nil {
		return err
	}
	c.journal.AddEvent(&tx.Event{
		Address: c.address,
		Topics:  topics,
		Data:    enc,
	})
	return nil
}

// Checkpoint marks the state and the journal, so both can be reverted together.
func (c *Context) Checkpoint() Revision {
	return Revision{
		state:   c.state.NewCheckpoint(),
		journal: c.journal.Checkpoint(),
	}
}

// Revert drops all changes made since the checkpoint.
func (c *Context) Revert(rev Revision) {
	c.state.RevertTo(rev.state)
	c.journal.RevertTo(rev.journal)
}
