package leadform

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"strings"

	"github.com/pola2025/leadform/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var embedMigrations embed.FS

func GetMigrationDir() (fs.FS, error) {
	return fs.Sub(embedMigrations, "migrations")
}

// RunMigrations 执行 migrations/<dialect> 下的脚本，reset 为 true 时先回滚全部的版本
func RunMigrations(ctx context.Context, dialect string, db *sql.DB, reset bool) error {
	dir, err := GetMigrationDir()
	if err != nil {
		return errors.Wrap(err, "load migrations fail")
	}
	goose.SetBaseFS(dir)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	if reset {
		if err := goose.ResetContext(ctx, db, dialect); err != nil {
			if !strings.Contains(err.Error(), "goose_db_version") {
				return err
			}
		}
	}

	if err := goose.UpContext(ctx, db, dialect); err != nil {
		return errors.Wrap(err, "run migrations fail")
	}
	return nil
}
