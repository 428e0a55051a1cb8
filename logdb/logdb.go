// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/lossless-cash/lossless-go/lss"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if path == ":memory:" {
		// every connection would open its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Insert appends events in one transaction.
func (db *LogDB) Insert(events []*lss.Event) error {
	if len(events) == 0 {
		return nil
	}
	return db.execInTx(func(tx *sql.Tx) error {
		for _, ev := range events {
			var amount []byte
			if ev.Amount != nil {
				amount = ev.Amount.Bytes()
			}
			if _, err := tx.Exec("INSERT INTO event(time, contract, name, reportID, account, amount, detail) VALUES (?, ?, ?, ?, ?, ?, ?);",
				ev.Timestamp,
				ev.Contract.Bytes(),
				ev.Name,
				ev.ReportID,
				ev.Account.Bytes(),
				amount,
				ev.Detail,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// FilterEvents returns the events matching filter, all events if filter is nil.
func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND time >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND time <= ? "
		}
	}
	if filter.ReportID != nil {
		args = append(args, *filter.ReportID)
		stmt += " AND reportID = ? "
	}
	if filter.Contract != nil {
		args = append(args, filter.Contract.Bytes())
		stmt += " AND contract = ? "
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ? "
	}
	if len(filter.Names) > 0 {
		stmt += " AND name IN (" + strings.TrimSuffix(strings.Repeat("?,", len(filter.Names)), ",") + ") "
		for _, name := range filter.Names {
			args = append(args, name)
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
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
			seq      uint64
			time     uint64
			contract []byte
			name     string
			reportID uint64
			account  []byte
			amount   []byte
			detail   sql.NullString
		)
		if err := rows.Scan(
			&seq,
			&time,
			&contract,
			&name,
			&reportID,
			&account,
			&amount,
			&detail,
		); err != nil {
			return nil, err
		}
		ev := &Event{
			Seq: seq,
			Event: lss.Event{
				Contract:  lss.BytesToAddress(contract),
				Name:      name,
				ReportID:  reportID,
				Account:   lss.BytesToAddress(account),
				Detail:    detail.String,
				Timestamp: time,
			},
		}
		if amount != nil {
			ev.Amount = new(big.Int).SetBytes(amount)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Count returns the number of stored events.
func (db *LogDB) Count(ctx context.Context) (uint64, error) {
	var n uint64
	if err := db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM event").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
