package forms

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/formfield"
	"github.com/pola2025/leadform/leadclient"
	"golang.org/x/exp/slog"
)

const CfgInmemFilename = "inmem.filename"

// NewInmemStore 创建内存中的存储，配置了 inmem.filename 时启动时从文件中读，每次保存后写回文件
func NewInmemStore(env *leadclient.Environment) (*InmemStore, error) {
	filename := env.Config.StringWithDefault(CfgInmemFilename, "")
	if filename != "" && !filepath.IsAbs(filename) {
		filename = env.Fs.FromData(filename)
	}
	store := &InmemStore{
		logger:   env.Logger.WithGroup("inmem"),
		filename: filename,
		tenants:  map[string]formfield.Schema{},
	}
	if filename == "" {
		return store, nil
	}

	bs, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, errors.Wrap(err, "read '"+filename+"' fail")
	}
	if err := json.Unmarshal(bs, &store.tenants); err != nil {
		return nil, errors.Wrap(err, "read '"+filename+"' fail")
	}
	if store.tenants == nil {
		store.tenants = map[string]formfield.Schema{}
	}
	return store, nil
}

type InmemStore struct {
	logger   *slog.Logger
	filename string

	mu      sync.RWMutex
	tenants map[string]formfield.Schema
}

var _ Store = &InmemStore{}

func (store *InmemStore) Load(ctx context.Context, tenant string) (formfield.Schema, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	fields, ok := store.tenants[tenant]
	if !ok {
		return nil, errors.NewNotFound("tenant", tenant)
	}
	return fields.Clone(), nil
}

func (store *InmemStore) Save(ctx context.Context, tenant string, fields formfield.Schema) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.tenants[tenant] = fields.Clone()
	return store.flush()
}

func (store *InmemStore) flush() error {
	if store.filename == "" {
		return nil
	}
	bs, err := json.MarshalIndent(store.tenants, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode fields fail")
	}
	if err := os.MkdirAll(filepath.Dir(store.filename), 0o755); err != nil {
		return errors.Wrap(err, "write '"+store.filename+"' fail")
	}

	tmp := store.filename + ".tmp"
	if err := os.WriteFile(tmp, bs, 0o644); err != nil {
		return errors.Wrap(err, "write '"+store.filename+"' fail")
	}
	if err := os.Rename(tmp, store.filename); err != nil {
		return errors.Wrap(err, "write '"+store.filename+"' fail")
	}
	return nil
}

func (store *InmemStore) Close() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	err := store.flush()
	if err != nil {
		store.logger.Warn("flush fields fail", leadclient.Error(err))
	}
	return err
}
