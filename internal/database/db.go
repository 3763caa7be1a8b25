package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Pool sizing for enlistment traffic: each enlist/cancel holds one
// connection for the length of a short transaction, and registration-day
// bursts fan out across sections, so the pool runs wider than the
// driver's defaults.  Idle connections are recycled well inside common
// MySQL wait_timeout settings.
const (
	maxOpenConns    = 40
	maxIdleConns    = 10
	connMaxLifetime = 20 * time.Minute
	connMaxIdleTime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open connects to MySQL and verifies the connection before returning.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s@%s:%s/%s: %w", user, host, port, name, err)
	}
	return db, nil
}

// dsn builds the driver connection string.  parseTime maps DATETIME
// columns (token expiries, audit timestamps) onto time.Time, and loc=UTC
// keeps those values consistent with the UTC times the service writes.
func dsn(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = user + ":" + pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)
}
