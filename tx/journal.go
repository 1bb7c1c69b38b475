// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

// Journal collects events and transfers produced by an operation.
// Like the state, it can be reverted to a checkpoint.
type Journal struct {
	events    Events
	transfers Transfers
	marks     []mark
}

type mark struct {
	events, transfers int
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// AddEvent appends an event.
func (j *Journal) AddEvent(ev *Event) {
	j.events = append(j.events, ev)
}

// AddTransfer appends a transfer.
func (j *Journal) AddTransfer(tr *Transfer) {
	j.transfers = append(j.transfers, tr)
}

// Checkpoint returns a revision to revert to.
func (j *Journal) Checkpoint() int {
	j.marks = append(j.marks, mark{len(j.events), len(j.transfers)})
	return len(j.marks) - 1
}

// RevertTo drops everything recorded since the checkpoint rev was made.
func (j *Journal) RevertTo(rev int) {
	if rev < 0 || rev >= len(j.marks) {
		return
	}
	m := j.marks[rev]
	j.events = j.events[:m.events]
	j.transfers = j.transfers[:m.transfers]
	j.marks = j.marks[:rev]
}

// Events returns recorded events.
func (j *Journal) Events() Events {
	return j.events
}

// Transfers returns recorded transfers.
func (j *Journal) Transfers() Transfers {
	return j.transfers
}
