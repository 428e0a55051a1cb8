// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for protocol events
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	time INTEGER NOT NULL,
	contract BLOB(20) NOT NULL,
	name TEXT NOT NULL,
	reportID INTEGER NOT NULL,
	account BLOB(20),
	amount BLOB,
	detail TEXT
);

CREATE INDEX IF NOT EXISTS eventTimeIndex ON event(time);
CREATE INDEX IF NOT EXISTS eventReportIndex ON event(reportID);
CREATE INDEX IF NOT EXISTS eventAccountIndex ON event(account);
CREATE INDEX IF NOT EXISTS eventNameIndex ON event(name);
`
