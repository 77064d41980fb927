package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS reports (
  id               BIGINT AUTO_INCREMENT PRIMARY KEY,
  project          VARCHAR(128) NOT NULL DEFAULT '',
  session_id       VARCHAR(128) NOT NULL DEFAULT '',
  prompt           MEDIUMTEXT   NOT NULL,
  secrets          MEDIUMTEXT   NOT NULL,
  sanitized_output MEDIUMTEXT   NOT NULL,
  reported_at      VARCHAR(64)  NOT NULL,
  created_at       TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
) DEFAULT CHARSET=utf8mb4;`

// Migrate creates the reports table when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create reports table: %w", err)
	}
	return nil
}
