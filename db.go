package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"bamtech/internal/config"
	"bamtech/internal/relay"
)

// Placeholders are written $N; SQLite treats them as numbered parameters
// bound in order, postgres natively.
const createInquiriesTableSQL = `
CREATE TABLE IF NOT EXISTS inquiries (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    subject TEXT NOT NULL,
    message TEXT NOT NULL,
    lang TEXT NOT NULL,
    remote_ip TEXT NOT NULL DEFAULT '',
    delivered INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);`

const createInquiriesIndexSQL = `
CREATE INDEX IF NOT EXISTS inquiries_created_at ON inquiries (created_at);`

// Inquiry is an archived contact form submission.
type Inquiry struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Message   string
	Lang      Lang
	RemoteIP  string
	Delivered bool
	CreatedAt time.Time
}

func openDB(settings *config.Settings) (*sql.DB, error) {
	driver, dsn := "sqlite3", settings.Database+"?_busy_timeout=5000"
	if settings.IsPostgres() {
		driver, dsn = "postgres", settings.Database
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(createInquiriesTableSQL); err != nil {
		return err
	}
	if _, err := db.Exec(createInquiriesIndexSQL); err != nil {
		return err
	}
	return nil
}

func insertInquiry(ctx context.Context, db *sql.DB, sub relay.Submission, lang Lang, remoteIP string, at time.Time) (string, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO inquiries (id, name, email, subject, message, lang, remote_ip, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, sub.Name, sub.Email, sub.Subject, sub.Message, string(lang), remoteIP, at.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert inquiry: %w", err)
	}
	return id, nil
}

func markDelivered(ctx context.Context, db *sql.DB, id string) error {
	if _, err := db.ExecContext(ctx, `UPDATE inquiries SET delivered = 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark inquiry %s delivered: %w", id, err)
	}
	return nil
}

func listInquiries(ctx context.Context, db *sql.DB, limit int) ([]Inquiry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, email, subject, message, lang, remote_ip, delivered, created_at
         FROM inquiries ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	var out []Inquiry
	for rows.Next() {
		var (
			inq       Inquiry
			lang      string
			delivered int
		)
		if err := rows.Scan(&inq.ID, &inq.Name, &inq.Email, &inq.Subject, &inq.Message,
			&lang, &inq.RemoteIP, &delivered, &inq.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		inq.Lang = Lang(lang)
		inq.Delivered = delivered != 0
		out = append(out, inq)
	}
	return out, rows.Err()
}
