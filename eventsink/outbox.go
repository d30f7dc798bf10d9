package eventsink

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/iov-one/tipjar/errors"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Outbox is a durable, ordered queue of records waiting to be published.
type Outbox struct {
	db *sql.DB
}

// Open opens or creates the outbox database at given path and brings its
// schema up to date.
func Open(path string) (*Outbox, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create outbox directory: %s", err)
	}
	if err := runMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open outbox: %s", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "ping outbox: %s", err)
	}
	return &Outbox{db: db}, nil
}

func runMigrations(path string) error {
	// The sqlite driver closes its connection together with the migrate
	// instance, a separate one is used.
	migrateDB, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "open migration database: %s", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "create sqlite driver: %s", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "create iofs source: %s", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "create migrate instance: %s", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrapf(errors.ErrDatabase, "run migrations: %s", err)
	}
	return nil
}

// Append stores all records in a single database transaction. Records that
// are already present are ignored.
func (o *Outbox) Append(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "begin: %s", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (id, chain_id, height, tx_index, idx, kind, jar_id, payload, attributes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "prepare insert: %s", err)
	}
	defer stmt.Close()

	for _, r := range records {
		attrs, err := json.Marshal(r.Attributes)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "attributes of %s: %s", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			r.ID.String(), r.ChainID, r.Height, r.TxIndex, r.Index,
			r.Kind, r.JarID, r.Payload, string(attrs),
		); err != nil {
			return errors.Wrapf(errors.ErrDatabase, "insert %s: %s", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "commit: %s", err)
	}
	return nil
}

// Pending returns up to limit records that were not published yet, oldest
// first.
func (o *Outbox) Pending(ctx context.Context, limit int) ([]Record, error) {
	rows, err := o.db.QueryContext(ctx, `
		SELECT id, chain_id, height, tx_index, idx, kind, jar_id, payload, attributes
		FROM events
		WHERE published_at IS NULL
		ORDER BY seq
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "query pending: %s", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r     Record
			id    string
			attrs string
		)
		if err := rows.Scan(&id, &r.ChainID, &r.Height, &r.TxIndex, &r.Index, &r.Kind, &r.JarID, &r.Payload, &attrs); err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "scan: %s", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "malformed id %q: %s", id, err)
		}
		if err := json.Unmarshal([]byte(attrs), &r.Attributes); err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "malformed attributes of %s: %s", id, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "iterate pending: %s", err)
	}
	return records, nil
}

// MarkPublished flags given records as delivered to the broker.
func (o *Outbox) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "begin: %s", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE events SET published_at = ? WHERE id = ? AND published_at IS NULL`,
			now, id.String(),
		); err != nil {
			return errors.Wrapf(errors.ErrDatabase, "mark %s: %s", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "commit: %s", err)
	}
	return nil
}

// Close releases the database.
func (o *Outbox) Close() error {
	return o.db.Close()
}
