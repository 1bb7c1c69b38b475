// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// seq packs the operation sequence and the log index, so ordering by seq is
// ordering by (operation, index).
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	tick INTEGER NOT NULL,
	op TEXT NOT NULL,
	caller BLOB(20) NOT NULL,
	address BLOB(20) NOT NULL,
	topic0 BLOB(32),
	topic1 BLOB(32),
	topic2 BLOB(32),
	topic3 BLOB(32),
	topic4 BLOB(32),
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(tick);
CREATE INDEX IF NOT EXISTS event_i1 ON event(address);
CREATE INDEX IF NOT EXISTS event_i2 ON event(topic0);
CREATE INDEX IF NOT EXISTS event_i3 ON event(topic1);
CREATE INDEX IF NOT EXISTS event_i4 ON event(topic2);
`

const transferTableSchema = `
CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER PRIMARY KEY NOT NULL,
	tick INTEGER NOT NULL,
	op TEXT NOT NULL,
	caller BLOB(20) NOT NULL,
	token BLOB(20) NOT NULL,
	sender BLOB(20) NOT NULL,
	recipient BLOB(20) NOT NULL,
	amount BLOB(32)
);

CREATE INDEX IF NOT EXISTS transfer_i0 ON transfer(tick);
CREATE INDEX IF NOT EXISTS transfer_i1 ON transfer(token);
CREATE INDEX IF NOT EXISTS transfer_i2 ON transfer(sender);
CREATE INDEX IF NOT EXISTS transfer_i3 ON transfer(recipient);
`
