package leadform

import (
	"context"
	"database/sql"

	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/formfield"
	"github.com/pola2025/leadform/leadclient"
	"github.com/pola2025/leadform/services/authn"
	"github.com/pola2025/leadform/services/authn/base_auth"
	"github.com/pola2025/leadform/services/authn/jwt_auth"
	"github.com/pola2025/leadform/services/forms"
	"github.com/pola2025/leadform/services/leads"
	"golang.org/x/exp/slog"
	_ "modernc.org/sqlite"
)

const (
	CfgPresets     = "forms.presets"
	CfgSQLiteDSN   = "sqlite.dsn"
	CfgSQLiteReset = "sqlite.reset"

	SQLiteDriver  = "sqlite"
	SQLiteDialect = "sqlite3"
)

type Server struct {
	Env     *leadclient.Environment
	Catalog *formfield.Catalog
	Store   forms.Store
	Intake  leads.Intake
	Forms   *forms.FormService

	closer SyncCloser
}

func NewServer(env *leadclient.Environment) (*Server, error) {
	return NewServerWith(env, nil, nil)
}

// NewServerWith store 或 intake 为 nil 时按配置创建
func NewServerWith(env *leadclient.Environment, store forms.Store, intake leads.Intake) (*Server, error) {
	catalog, err := leadclient.LoadCatalog(presetsFilename(env))
	if err != nil {
		return nil, err
	}

	if store == nil {
		store, err = NewStore(context.Background(), env)
		if err != nil {
			return nil, err
		}
	}

	if intake == nil {
		intake, err = leads.NewIntake(env)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	formSvc, err := forms.NewFormService(env, store, catalog, intake)
	if err != nil {
		store.Close()
		return nil, err
	}

	srv := &Server{
		Env:     env,
		Catalog: catalog,
		Store:   store,
		Intake:  intake,
		Forms:   formSvc,
	}
	srv.closer.Set(store)
	return srv, nil
}

func presetsFilename(env *leadclient.Environment) string {
	filename := env.Config.StringWithDefault(CfgPresets, "")
	if filename == "" {
		return ""
	}
	if leadclient.FileExists(filename) {
		return filename
	}
	if env.Fs == nil {
		return filename
	}
	if s := env.Fs.SearchConfig(filename); len(s) > 0 {
		return s[0]
	}
	return filename
}

// Auth 编辑接口的检验函数：门户的 jwt token，以及配置了密码时后台的 basic 账号
func (srv *Server) Auth() ([]authn.AuthValidateFunc, error) {
	jwtAuth, _, err := jwt_auth.New(srv.Env)
	if err != nil {
		return nil, err
	}
	validateFns := []authn.AuthValidateFunc{jwtAuth}
	if basicAuth := base_auth.New(srv.Env); basicAuth != nil {
		validateFns = append(validateFns, basicAuth)
	}
	return validateFns, nil
}

func (srv *Server) Close() error {
	return srv.closer.Close()
}

// NewStore 按 forms.store 创建字段的存储
func NewStore(ctx context.Context, env *leadclient.Environment) (forms.Store, error) {
	storeType := env.Config.StringWithDefault(forms.CfgStore, forms.StoreInmem)
	env.Logger.Info("open form store", slog.String("type", storeType))

	switch storeType {
	case forms.StoreInmem:
		return forms.NewInmemStore(env)
	case forms.StoreAirtable:
		return forms.NewAirtableStore(env)
	case forms.StoreSQLite:
		db, err := OpenSQLite(ctx, env)
		if err != nil {
			return nil, err
		}
		return forms.NewSQLiteStore(db, leadclient.NewSQLTracer(env.Logger.WithGroup("sqlite"))), nil
	default:
		return nil, errors.WithKeyValue(errors.ErrUnknownStore, "type", storeType)
	}
}

// OpenSQLite 打开 sqlite 数据库并执行 migrations
func OpenSQLite(ctx context.Context, env *leadclient.Environment) (*sql.DB, error) {
	dsn := env.Config.StringWithDefault(CfgSQLiteDSN, "")
	if dsn == "" {
		dsn = "file:" + env.Fs.FromData("leadform.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open(SQLiteDriver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite fail")
	}

	err = RunMigrations(ctx, SQLiteDialect, db, env.Config.BoolWithDefault(CfgSQLiteReset, false))
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
