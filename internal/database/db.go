package database

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/fly24/backoffice/internal/config"
)

const (
	maxOpenConns = 25
	maxIdleConns = 25
	connLifetime = 30 * time.Minute
	pingTimeout  = 5 * time.Second
)

// Open connects to MySQL using the app configuration and verifies the
// connection before returning the pool.
func Open(c config.Config) (*sql.DB, error) {
	dsn := mysql.Config{
		User:      c.DBUser,
		Passwd:    c.DBPass,
		Net:       "tcp",
		Addr:      net.JoinHostPort(c.DBHost, c.DBPort),
		DBName:    c.DBName,
		ParseTime: true,     // DATETIME columns scan into time.Time
		Loc:       time.UTC, // flight dates are compared in UTC
		Params:    map[string]string{"charset": "utf8mb4"},
	}

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
