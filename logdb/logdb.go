// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/yieldchef/chef/chef"
	"github.com/yieldchef/chef/tx"
)

const (
	insertEventQuery    = "INSERT OR REPLACE INTO event(seq, tick, op, caller, address, topic0, topic1, topic2, topic3, topic4, data) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	insertTransferQuery = "INSERT OR REPLACE INTO transfer(seq, tick, op, caller, token, sender, recipient, amount) VALUES(?, ?, ?, ?, ?, ?, ?, ?)"
	eventSelect         = "SELECT seq, tick, op, caller, address, topic0, topic1, topic2, topic3, topic4, data FROM event"
	transferSelect      = "SELECT seq, tick, op, caller, token, sender, recipient, amount FROM transfer"
)

const memPath = "file::memory:"

// LogDB indexes the events and transfers of committed operations.
type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != memPath {
		dsn += "?_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps an in-memory database alive and serializes writes
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
		newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(memPath)
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the sqlite library version.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Write stores the logs of one committed operation, all or nothing.
func (db *LogDB) Write(receipt *tx.Receipt) error {
	if len(receipt.Events) == 0 && len(receipt.Transfers) == 0 {
		return nil
	}
	// statements are prepared before the transaction takes the only connection
	eventStmt, err := db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return err
	}
	transferStmt, err := db.stmtCache.Prepare(insertTransferQuery)
	if err != nil {
		return err
	}
	return db.execInTx(func(dbTx *sql.Tx) error {
		insertEvent := dbTx.Stmt(eventStmt)
		for i, ev := range receipt.Events {
			event := newEvent(receipt, uint32(i), ev)
			seq, err := newSequence(event.OpSeq, event.Index)
			if err != nil {
				return err
			}
			if _, err := insertEvent.Exec(
				seq,
				event.Tick,
				event.Op,
				event.Caller.Bytes(),
				event.Address.Bytes(),
				topicValue(event.Topics[0]),
				topicValue(event.Topics[1]),
				topicValue(event.Topics[2]),
				topicValue(event.Topics[3]),
				topicValue(event.Topics[4]),
				event.Data,
			); err != nil {
				return errors.Wrap(err, "insert event")
			}
		}

		insertTransfer := dbTx.Stmt(transferStmt)
		for i, tr := range receipt.Transfers {
			transfer := newTransfer(receipt, uint32(i), tr)
			seq, err := newSequence(transfer.OpSeq, transfer.Index)
			if err != nil {
				return err
			}
			if _, err := insertTransfer.Exec(
				seq,
				transfer.Tick,
				transfer.Op,
				transfer.Caller.Bytes(),
				transfer.Token.Bytes(),
				transfer.Sender.Bytes(),
				transfer.Recipient.Bytes(),
				transfer.Amount.Bytes(),
			); err != nil {
				return errors.Wrap(err, "insert transfer")
			}
		}
		return nil
	})
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) (err error) {
	dbTx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(dbTx); err != nil {
		_ = dbTx.Rollback()
		return err
	}
	return dbTx.Commit()
}

// NewestOpSeq returns the sequence of the latest operation that wrote logs.
func (db *LogDB) NewestOpSeq() (uint64, error) {
	var seq sql.NullInt64
	row := db.db.QueryRow("SELECT MAX(seq) FROM (SELECT MAX(seq) AS seq FROM event UNION ALL SELECT MAX(seq) AS seq FROM transfer)")
	if err := row.Scan(&seq); err != nil {
		return 0, err
	}
	if !seq.Valid {
		return 0, nil
	}
	return sequence(seq.Int64).OpSeq(), nil
}

func rangeCondition(r *Range, args []any) (string, []any) {
	if r == nil {
		return "", args
	}
	stmt := " AND tick >= ?"
	args = append(args, r.From)
	if r.To >= r.From {
		stmt += " AND tick <= ?"
		args = append(args, r.To)
	}
	return stmt, args
}

func orderAndLimit(order Order, options *Options, args []any) (string, []any) {
	stmt := " ORDER BY seq ASC"
	if order == DESC {
		stmt = " ORDER BY seq DESC"
	}
	if options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, options.Offset, options.Limit)
	}
	return stmt, args
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, eventSelect+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := eventSelect + " WHERE 1"
	cond, args := rangeCondition(filter.Range, args)
	stmt += cond
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ?"
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		stmt += " )"
		if i == len(filter.CriteriaSet)-1 {
			stmt += " )"
		}
	}
	tail, args := orderAndLimit(filter.Order, filter.Options, args)
	return db.queryEvents(ctx, stmt+tail, args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, transferSelect+" ORDER BY seq ASC")
	}
	metricsHandleCommon(filter.Options, filter.Order, len(filter.CriteriaSet), "transfer")

	var args []any
	stmt := transferSelect + " WHERE 1"
	cond, args := rangeCondition(filter.Range, args)
	stmt += cond
	if filter.Caller != nil {
		args = append(args, filter.Caller.Bytes())
		stmt += " AND caller = ?"
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Token != nil {
			args = append(args, criteria.Token.Bytes())
			stmt += " AND token = ?"
		}
		if criteria.Sender != nil {
			args = append(args, criteria.Sender.Bytes())
			stmt += " AND sender = ?"
		}
		if criteria.Recipient != nil {
			args = append(args, criteria.Recipient.Bytes())
			stmt += " AND recipient = ?"
		}
		stmt += " )"
		if i == len(filter.CriteriaSet)-1 {
			stmt += " )"
		}
	}
	tail, args := orderAndLimit(filter.Order, filter.Options, args)
	return db.queryTransfers(ctx, stmt+tail, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq     int64
			tick    uint64
			op      string
			caller  []byte
			address []byte
			topics  [5][]byte
			data    []byte
		)
		if err := rows.Scan(
			&seq,
			&tick,
			&op,
			&caller,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			OpSeq:   sequence(seq).OpSeq(),
			Index:   sequence(seq).Index(),
			Tick:    tick,
			Op:      op,
			Caller:  chef.BytesToAddress(caller),
			Address: chef.BytesToAddress(address),
			Data:    data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := chef.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, stmt string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       int64
			tick      uint64
			op        string
			caller    []byte
			token     []byte
			sender    []byte
			recipient []byte
			amount    []byte
		)
		if err := rows.Scan(
			&seq,
			&tick,
			&op,
			&caller,
			&token,
			&sender,
			&recipient,
			&amount,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			OpSeq:     sequence(seq).OpSeq(),
			Index:     sequence(seq).Index(),
			Tick:      tick,
			Op:        op,
			Caller:    chef.BytesToAddress(caller),
			Token:     chef.BytesToAddress(token),
			Sender:    chef.BytesToAddress(sender),
			Recipient: chef.BytesToAddress(recipient),
			Amount:    new(big.Int).SetBytes(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *chef.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}
