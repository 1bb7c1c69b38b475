// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/yieldchef/chef/builtin"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/lvldb"
	"github.com/yieldchef/chef/state"
	"github.com/yieldchef/chef/tx"
)

// Builder helper to build genesis state.
type Builder struct {
	launchTime   uint64
	tickInterval uint64

	stateProcs []func(natives *builtin.Natives) error
}

// LaunchTime set the unix time of tick zero.
func (b *Builder) LaunchTime(t uint64) *Builder {
	b.launchTime = t
	return b
}

// TickInterval set the tick length in seconds.
func (b *Builder) TickInterval(seconds uint64) *Builder {
	b.tickInterval = seconds
	return b
}

// State add a state process.
func (b *Builder) State(proc func(natives *builtin.Natives) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// ComputeID compute genesis ID, the checksum of the genesis state changes.
func (b *Builder) ComputeID() (chef.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return chef.Bytes32{}, err
	}
	defer db.Close()

	st := state.NewStater(db, 0).NewState()
	if err := b.Build(st, tx.NewJournal()); err != nil {
		return chef.Bytes32{}, err
	}
	return st.Stage().Hash(), nil
}

// Build runs the state processes in order. Nothing is committed.
func (b *Builder) Build(st *state.State, journal *tx.Journal) error {
	natives := builtin.Bind(st, journal)
	for i, proc := range b.stateProcs {
		if err := proc(natives); err != nil {
			return errors.Wrapf(err, "state process %d", i)
		}
	}
	return nil
}
