package kv

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect holds the driver name and the statements that differ between SQL
// engines.
type Dialect struct {
	Driver      string
	CreateTable string
	Upsert      string
}

// SQLiteDialect targets github.com/mattn/go-sqlite3.
var SQLiteDialect = Dialect{
	Driver:      "sqlite3",
	CreateTable: `CREATE TABLE IF NOT EXISTS kv (k TEXT PRIMARY KEY, v TEXT NOT NULL)`,
	Upsert:      `INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
}

// MySQLDialect targets github.com/go-sql-driver/mysql.
var MySQLDialect = Dialect{
	Driver:      "mysql",
	CreateTable: `CREATE TABLE IF NOT EXISTS kv (k VARCHAR(191) NOT NULL PRIMARY KEY, v LONGTEXT NOT NULL)`,
	Upsert:      `INSERT INTO kv (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
}

// SQL is a Storage backed by a single two-column table.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLite opens or creates the SQLite database at path.
func OpenSQLite(path string) (*SQL, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open(SQLiteDialect.Driver, path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // one writer at a time

	return newSQL(db, SQLiteDialect)
}

// OpenMySQL connects to the MySQL server described by dsn.
func OpenMySQL(dsn string) (*SQL, error) {
	db, err := sql.Open(MySQLDialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return newSQL(db, MySQLDialect)
}

func newSQL(db *sql.DB, dialect Dialect) (*SQL, error) {
	if _, err := db.Exec(dialect.CreateTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQL{db: db, dialect: dialect}, nil
}

// GetItem implements Storage.
func (s *SQL) GetItem(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

// SetItem implements Storage.
func (s *SQL) SetItem(key, value string) error {
	if _, err := s.db.Exec(s.dialect.Upsert, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// SetItems implements Storage. All entries are written in one transaction.
func (s *SQL) SetItems(items map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(s.dialect.Upsert)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for k, v := range items {
		if _, err := stmt.Exec(k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RemoveItem implements Storage.
func (s *SQL) RemoveItem(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE k = ?`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Clear implements Storage.
func (s *SQL) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM kv`); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// Close implements Storage.
func (s *SQL) Close() error {
	return s.db.Close()
}
