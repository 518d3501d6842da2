package forms

import (
	"context"
	"database/sql"
	"time"

	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/formfield"
	"github.com/pola2025/leadform/leadclient"
)

const (
	loadSchemaSQL = "SELECT fields FROM form_schemas WHERE tenant = ?"
	saveSchemaSQL = "INSERT INTO form_schemas(tenant, fields, created_at, updated_at) VALUES(?, ?, ?, ?)" +
		" ON CONFLICT(tenant) DO UPDATE SET fields = excluded.fields, updated_at = excluded.updated_at"
)

// NewSQLiteStore 表 form_schemas 需要先由 migrations 创建
func NewSQLiteStore(db *sql.DB, tracer leadclient.SQLTracer) *SQLiteStore {
	return &SQLiteStore{
		db:     db,
		tracer: tracer,
	}
}

type SQLiteStore struct {
	db     *sql.DB
	tracer leadclient.SQLTracer
}

var _ Store = &SQLiteStore{}

func (store *SQLiteStore) Load(ctx context.Context, tenant string) (formfield.Schema, error) {
	var s string
	err := store.db.QueryRowContext(ctx, loadSchemaSQL, tenant).Scan(&s)
	store.tracer.Write(ctx, "form_schemas.load", loadSchemaSQL, []interface{}{tenant}, err)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFound("tenant", tenant)
		}
		return nil, errors.Wrap(err, "load fields of '"+tenant+"' fail")
	}
	return decodeSchema(tenant, s)
}

func (store *SQLiteStore) Save(ctx context.Context, tenant string, fields formfield.Schema) error {
	s, err := encodeSchema(fields)
	if err != nil {
		return err
	}
	now := time.Now()
	args := []interface{}{tenant, s, now, now}
	_, err = store.db.ExecContext(ctx, saveSchemaSQL, args...)
	store.tracer.Write(ctx, "form_schemas.save", saveSchemaSQL, args, err)
	if err != nil {
		return errors.Wrap(err, "save fields of '"+tenant+"' fail")
	}
	return nil
}

func (store *SQLiteStore) Close() error {
	return store.db.Close()
}
