// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/yieldchef/chef/builtin"
	"github.com/yieldchef/chef/builtin/reverts"
	"github.com/yieldchef/chef/builtin/solidity"
	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/clock"
	"github.com/yieldchef/chef/genesis"
	"github.com/yieldchef/chef/kv"
	"github.com/yieldchef/chef/log"
	"github.com/yieldchef/chef/logdb"
	"github.com/yieldchef/chef/state"
	"github.com/yieldchef/chef/tx"
)

var logger = log.WithContext("pkg", "ledger")

// ErrGenesisMismatch is returned when the store was initialized by another genesis.
var ErrGenesisMismatch = errors.New("genesis mismatch")

var (
	stateBucket = kv.Bucket("s")

	// metadata lives in state, so it is committed with the operation that changes it
	metaAddress   = chef.BytesToAddress([]byte("Ledger"))
	slotGenesisID = chef.BytesToBytes32([]byte("genesis-id"))
	slotOpSeq     = chef.BytesToBytes32([]byte("op-seq"))
)

// Options tunes a ledger.
type Options struct {
	// CacheSize is the count of committed storage slots kept in memory.
	CacheSize int
}

// Ledger runs farm operations one at a time against committed state.
// Every operation samples the clock once, runs on a fresh state and is either
// committed as a whole or discarded.
type Ledger struct {
	mu        sync.RWMutex
	stater    *state.Stater
	clock     clock.Source
	logDB     *logdb.LogDB
	genesisID chef.Bytes32
	opSeq     uint64
	receipts  *broadcaster
}

// New opens the ledger on the store, building the genesis state on first use.
// logDB may be nil.
func New(store kv.Store, gen *genesis.Genesis, clk clock.Source, logDB *logdb.LogDB, opts Options) (*Ledger, error) {
	l := &Ledger{
		stater: state.NewStater(stateBucket.NewStore(store), opts.CacheSize),
		clock:  clk,
		logDB:  logDB,
	}

	st := l.stater.NewState()
	meta := solidity.NewContext(metaAddress, st, nil)
	genesisID := solidity.NewRaw[chef.Bytes32](meta, slotGenesisID)
	opSeq := solidity.NewRaw[uint64](meta, slotOpSeq)

	set, err := genesisID.IsSet()
	if err != nil {
		return nil, err
	}
	if !set {
		if err := l.initialize(gen); err != nil {
			return nil, errors.Wrap(err, "build genesis")
		}
		l.genesisID = gen.ID()
		logger.Info("genesis initialized", "id", gen.ID(), "name", gen.Name())
		l.receipts = newBroadcaster()
		return l, nil
	}

	if l.genesisID, err = genesisID.Get(); err != nil {
		return nil, err
	}
	if l.genesisID != gen.ID() {
		return nil, errors.WithMessagef(ErrGenesisMismatch, "stored %v, given %v", l.genesisID, gen.ID())
	}
	if l.opSeq, err = opSeq.Get(); err != nil {
		return nil, err
	}
	logger.Info("ledger opened", "genesis", l.genesisID, "seq", l.opSeq)
	l.receipts = newBroadcaster()
	return l, nil
}

func (l *Ledger) initialize(gen *genesis.Genesis) error {
	st := l.stater.NewState()
	journal := tx.NewJournal()
	if err := gen.Build(st, journal); err != nil {
		return err
	}
	if id := st.Stage().Hash(); id != gen.ID() {
		return errors.Errorf("genesis id %v, built %v", gen.ID(), id)
	}
	meta := solidity.NewContext(metaAddress, st, nil)
	if err := solidity.NewRaw[chef.Bytes32](meta, slotGenesisID).Set(gen.ID()); err != nil {
		return err
	}
	if err := solidity.NewRaw[uint64](meta, slotOpSeq).Set(0); err != nil {
		return err
	}
	if err := st.Stage().Commit(); err != nil {
		return err
	}
	l.writeLogs(&tx.Receipt{
		Op:        "genesis",
		Events:    journal.Events(),
		Transfers: journal.Transfers(),
	})
	return nil
}

// GenesisID returns the id of the genesis the ledger was built from.
func (l *Ledger) GenesisID() chef.Bytes32 {
	return l.genesisID
}

// OpSeq returns the sequence of the last committed operation.
func (l *Ledger) OpSeq() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.opSeq
}

// Tick returns the current tick of the ledger clock.
func (l *Ledger) Tick() uint64 {
	return l.clock.CurrentTick()
}

// LogDB returns the log index, nil when logs are not indexed.
func (l *Ledger) LogDB() *logdb.LogDB {
	return l.logDB
}

// SubscribeReceipts receives the receipt of every committed operation.
func (l *Ledger) SubscribeReceipts(ch chan *tx.Receipt) event.Subscription {
	return l.receipts.subscribe(ch)
}

// Close unsubscribes all receipt subscribers.
func (l *Ledger) Close() {
	l.receipts.close()
}

// View runs a read-only function on committed state at the current tick.
// Changes made by fn are discarded.
func (l *Ledger) View(fn func(n *builtin.Natives, tick uint64) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return fn(builtin.Bind(l.stater.NewState(), tx.NewJournal()), l.clock.CurrentTick())
}

// execute runs op as one atomic operation.
func (l *Ledger) execute(op string, caller chef.Address, fn func(n *builtin.Natives, tick uint64) error) (*tx.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	startTime := time.Now()
	tick := l.clock.CurrentTick()
	st := l.stater.NewState()
	journal := tx.NewJournal()
	natives := builtin.Bind(st, journal)

	if err := fn(natives, tick); err != nil {
		status := "error"
		if reverts.IsRevertErr(err) {
			status = "revert"
			logger.Debug("operation reverted", "op", op, "caller", caller, "tick", tick, "err", err)
		} else {
			logger.Error("operation failed", "op", op, "caller", caller, "tick", tick, "err", err)
		}
		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": status})
		return nil, err
	}

	seq := l.opSeq + 1
	if err := solidity.NewRaw[uint64](solidity.NewContext(metaAddress, st, nil), slotOpSeq).Set(seq); err != nil {
		return nil, err
	}
	if err := st.Stage().Commit(); err != nil {
		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": "error"})
		return nil, errors.Wrap(err, "commit")
	}
	l.opSeq = seq

	receipt := &tx.Receipt{
		Seq:       seq,
		Tick:      tick,
		Op:        op,
		Caller:    caller,
		Events:    journal.Events(),
		Transfers: journal.Transfers(),
	}
	l.writeLogs(receipt)
	l.receipts.publish(receipt)

	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": "ok"})
	metricOpDuration().ObserveWithLabels(time.Since(startTime).Microseconds(), map[string]string{"op": op})
	if em, err := natives.Farm.Emission(); err == nil {
		metricMinted().Set(nanoUnits(em.MintedTotal))
	}
	logger.Debug("operation committed", "op", op, "seq", seq, "tick", tick, "events", len(receipt.Events))
	return receipt, nil
}

func (l *Ledger) writeLogs(receipt *tx.Receipt) {
	if l.logDB == nil {
		return
	}
	// state is already committed, a lost log entry only degrades queries
	if err := l.logDB.Write(receipt); err != nil {
		logger.Error("failed to write logs", "op", receipt.Op, "seq", receipt.Seq, "err", err)
	}
}

var nano = big.NewInt(1e9)

// nanoUnits scales an 18 decimals amount to fit a gauge.
func nanoUnits(v *big.Int) int64 {
	n := new(big.Int).Div(v, nano)
	if !n.IsInt64() {
		return int64(^uint64(0) >> 1)
	}
	return n.Int64()
}
