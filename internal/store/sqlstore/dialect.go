package sqlstore

import (
	"fmt"

	"github.com/alrazi/medstock/internal/store"
)

// Dialect captures the statements that differ between SQL engines. Table
// names come from store.Collections only, never from caller input.
type Dialect struct {
	Name string

	createTable string
	upsert      string
	// lockRead is appended to reads inside WithTx.
	lockRead string
}

// SQLite targets modernc.org/sqlite. Transactions are serialised by the
// single connection the opener configures, so reads need no lock clause.
var SQLite = Dialect{
	Name: "sqlite",
	createTable: `CREATE TABLE IF NOT EXISTS %[1]s (
    id         TEXT PRIMARY KEY,
    doc        TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	upsert: `INSERT INTO %[1]s (id, doc) VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = CURRENT_TIMESTAMP`,
}

// MySQL targets github.com/go-sql-driver/mysql on InnoDB.
var MySQL = Dialect{
	Name: "mysql",
	createTable: `CREATE TABLE IF NOT EXISTS %[1]s (
    id         VARCHAR(64) NOT NULL PRIMARY KEY,
    doc        LONGTEXT NOT NULL,
    updated_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	upsert: `INSERT INTO %[1]s (id, doc) VALUES (?, ?)
ON DUPLICATE KEY UPDATE doc = VALUES(doc), updated_at = CURRENT_TIMESTAMP(6)`,
	lockRead: " FOR UPDATE",
}

func (d Dialect) createTableSQL(c store.Collection) string {
	return fmt.Sprintf(d.createTable, c)
}

func (d Dialect) upsertSQL(c store.Collection) string {
	return fmt.Sprintf(d.upsert, c)
}

func (d Dialect) getSQL(c store.Collection, locked bool) string {
	q := fmt.Sprintf("SELECT doc FROM %s WHERE id = ?", c)
	if locked {
		q += d.lockRead
	}
	return q
}

func (d Dialect) getAllSQL(c store.Collection) string {
	return fmt.Sprintf("SELECT doc FROM %s ORDER BY id", c)
}

func (d Dialect) deleteSQL(c store.Collection) string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = ?", c)
}
