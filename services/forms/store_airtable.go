package forms

import (
	"context"
	"net/url"
	"strings"

	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/formfield"
	"github.com/pola2025/leadform/leadclient"
	"github.com/runner-mei/resty"
	"golang.org/x/exp/slog"
)

const (
	CfgAirtableURL         = "airtable.url"
	CfgAirtableBase        = "airtable.base"
	CfgAirtableTable       = "airtable.table"
	CfgAirtableToken       = "airtable.token"
	CfgAirtableSlugField   = "airtable.slug_field"
	CfgAirtableFieldsField = "airtable.fields_field"

	DefaultAirtableURL = "https://api.airtable.com/v0"
)

// NewAirtableStore 租户保存在 Airtable 的客户表中，slug 列是租户，
// formFields 列是 JSON 格式的字段。客户的记录由注册流程创建，这里只更新字段列。
func NewAirtableStore(env *leadclient.Environment) (*AirtableStore, error) {
	base := env.Config.StringWithDefault(CfgAirtableBase, "")
	if base == "" {
		return nil, errors.New("'" + CfgAirtableBase + "' is missing")
	}
	table := env.Config.StringWithDefault(CfgAirtableTable, "")
	if table == "" {
		return nil, errors.New("'" + CfgAirtableTable + "' is missing")
	}
	token := env.Config.StringWithDefault(CfgAirtableToken, "")
	if token == "" {
		return nil, errors.New("'" + CfgAirtableToken + "' is missing")
	}

	urlstr := env.Config.StringWithDefault(CfgAirtableURL, DefaultAirtableURL)
	pxy, err := leadclient.NewResty(leadclient.Urljoin(urlstr, url.PathEscape(base)))
	if err != nil {
		return nil, errors.Wrap(err, "create airtable client fail")
	}

	return &AirtableStore{
		logger:      env.Logger.WithGroup("airtable"),
		proxy:       pxy,
		table:       table,
		token:       token,
		slugField:   env.Config.StringWithDefault(CfgAirtableSlugField, "slug"),
		fieldsField: env.Config.StringWithDefault(CfgAirtableFieldsField, "formFields"),
	}, nil
}

type AirtableStore struct {
	logger      *slog.Logger
	proxy       *resty.Proxy
	table       string
	token       string
	slugField   string
	fieldsField string
}

var _ Store = &AirtableStore{}

type airtableRecord struct {
	ID     string                 `json:"id,omitempty"`
	Fields map[string]interface{} `json:"fields"`
}

type airtableRecords struct {
	Records []airtableRecord `json:"records"`
}

func (store *AirtableStore) newRequest(urlstr string) *resty.Request {
	return resty.NewRequest(store.proxy, urlstr).
		SetHeader("Authorization", "Bearer "+store.token)
}

func quoteFormula(s string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "'", `\'`) + "'"
}

func (store *AirtableStore) find(ctx context.Context, tenant string) (*airtableRecord, error) {
	query := url.Values{}
	query.Set("filterByFormula", "{"+store.slugField+"}="+quoteFormula(tenant))
	query.Set("maxRecords", "1")

	var result airtableRecords
	request := store.newRequest("/" + url.PathEscape(store.table) + "?" + query.Encode()).
		Result(&result)
	defer resty.ReleaseRequest(store.proxy, request)

	if err := request.GET(ctx); err != nil {
		store.logger.WarnContext(ctx, "find record fail", leadclient.Tenant(tenant), leadclient.Error(err))
		return nil, errors.Wrap(err, "find record of '"+tenant+"' fail")
	}
	if len(result.Records) == 0 {
		return nil, errors.NewNotFound("tenant", tenant)
	}
	return &result.Records[0], nil
}

func (store *AirtableStore) Load(ctx context.Context, tenant string) (formfield.Schema, error) {
	record, err := store.find(ctx, tenant)
	if err != nil {
		return nil, err
	}
	s, _ := record.Fields[store.fieldsField].(string)
	if strings.TrimSpace(s) == "" {
		return nil, errors.NewNotFound("tenant", tenant)
	}
	return decodeSchema(tenant, s)
}

func (store *AirtableStore) Save(ctx context.Context, tenant string, fields formfield.Schema) error {
	record, err := store.find(ctx, tenant)
	if err != nil {
		return err
	}
	s, err := encodeSchema(fields)
	if err != nil {
		return err
	}

	request := store.newRequest("/" + url.PathEscape(store.table) + "/" + url.PathEscape(record.ID)).
		SetBody(&airtableRecord{
			Fields: map[string]interface{}{
				store.fieldsField: s,
			},
		})
	defer resty.ReleaseRequest(store.proxy, request)

	if err := request.PATCH(ctx); err != nil {
		store.logger.WarnContext(ctx, "update record fail",
			leadclient.Tenant(tenant),
			slog.String("record", record.ID),
			leadclient.Error(err))
		return errors.Wrap(err, "save fields of '"+tenant+"' fail")
	}
	return nil
}

func (store *AirtableStore) Close() error {
	return nil
}
