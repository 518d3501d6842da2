package forms

import (
	"context"
	"encoding/json"

	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/formfield"
)

const (
	CfgStore = "forms.store"

	StoreInmem    = "inmem"
	StoreSQLite   = "sqlite"
	StoreAirtable = "airtable"
)

// Store 保存租户的表单字段，租户没有保存过时 Load 返回 errors.ErrNotFound
type Store interface {
	Load(ctx context.Context, tenant string) (formfield.Schema, error)
	Save(ctx context.Context, tenant string, fields formfield.Schema) error
	Close() error
}

func encodeSchema(fields formfield.Schema) (string, error) {
	if fields == nil {
		fields = formfield.Schema{}
	}
	bs, err := json.Marshal(fields)
	if err != nil {
		return "", errors.Wrap(err, "encode fields fail")
	}
	return string(bs), nil
}

func decodeSchema(tenant, s string) (formfield.Schema, error) {
	var fields formfield.Schema
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return nil, errors.WithKeyValue(errors.Wrap(err, "decode fields of '"+tenant+"' fail"), "tenant", tenant)
	}
	return fields, nil
}
