package forms

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/formfield"
	"github.com/pola2025/leadform/goutils/exporter"
	"github.com/pola2025/leadform/leadclient"
	"github.com/pola2025/leadform/services/leads"
	"golang.org/x/exp/slog"
)

const MaxTenantLength = 100

// NewFormService 编辑操作都是 读取 -> 修改 -> 保存，同一个进程中同一个租户的操作是串行的
func NewFormService(env *leadclient.Environment, store Store, catalog *formfield.Catalog, intake leads.Intake) (*FormService, error) {
	if catalog == nil {
		catalog = formfield.DefaultCatalog
	}
	validator, err := newRequestValidator()
	if err != nil {
		return nil, err
	}
	return &FormService{
		logger:    env.Logger.WithGroup("forms"),
		store:     store,
		catalog:   catalog,
		intake:    intake,
		validator: validator,
		locks:     newKeyedMutex(),
		Now:       time.Now,
	}, nil
}

type FormService struct {
	logger    *slog.Logger
	store     Store
	catalog   *formfield.Catalog
	intake    leads.Intake
	validator *requestValidator
	locks     *keyedMutex

	Now func() time.Time
}

var _ leadclient.Forms = &FormService{}

func (svc *FormService) Catalog() *formfield.Catalog {
	return svc.catalog
}

func checkTenant(tenant string) error {
	if tenant == "" || len(tenant) > MaxTenantLength || strings.ContainsAny(tenant, "/\\'\"{}") {
		return errors.NewBadArgument(errors.New("tenant is invalid"), "forms", "tenant", tenant)
	}
	return nil
}

func (svc *FormService) load(ctx context.Context, tenant string) (formfield.Schema, error) {
	if err := checkTenant(tenant); err != nil {
		return nil, err
	}
	fields, err := svc.store.Load(ctx, tenant)
	if err != nil {
		if errors.IsNotFound(err) {
			return svc.catalog.DefaultSchema(), nil
		}
		svc.logger.WarnContext(ctx, "load fields fail", leadclient.Tenant(tenant), leadclient.Error(err))
		return nil, err
	}
	return fields, nil
}

func (svc *FormService) Get(ctx context.Context, tenant string) (formfield.Schema, error) {
	return svc.load(ctx, tenant)
}

// Put 整体替换字段，不通过 Check 的字段会被拒绝
func (svc *FormService) Put(ctx context.Context, tenant string, fields formfield.Schema) error {
	if err := checkTenant(tenant); err != nil {
		return err
	}
	if issues := svc.catalog.Check(fields); len(issues) > 0 {
		messages := make([]string, 0, len(issues))
		for _, issue := range issues {
			messages = append(messages, issue.String())
		}
		return errors.NewValidationError(strings.Join(messages, "; "), issues)
	}

	unlock := svc.locks.Lock(tenant)
	defer unlock()

	n := formfield.Normalize(fields)
	if err := svc.store.Save(ctx, tenant, n); err != nil {
		svc.logger.ErrorContext(ctx, "save fields fail", leadclient.Tenant(tenant), leadclient.Error(err))
		return err
	}
	svc.logger.InfoContext(ctx, "fields are replaced",
		leadclient.Tenant(tenant),
		slog.Int("count", len(n)))
	return nil
}

func (svc *FormService) update(ctx context.Context, tenant, op, id string, cb func(formfield.Schema) (formfield.Schema, error)) (formfield.Schema, error) {
	if err := checkTenant(tenant); err != nil {
		return nil, err
	}

	unlock := svc.locks.Lock(tenant)
	defer unlock()

	fields, err := svc.load(ctx, tenant)
	if err != nil {
		return nil, err
	}

	n, err := cb(fields)
	if err != nil {
		return nil, err
	}
	if err := svc.store.Save(ctx, tenant, n); err != nil {
		svc.logger.ErrorContext(ctx, "save fields fail",
			leadclient.Tenant(tenant),
			slog.String("op", op),
			slog.String("field", id),
			leadclient.Error(err))
		return nil, err
	}
	svc.logger.InfoContext(ctx, "fields are updated",
		leadclient.Tenant(tenant),
		slog.String("op", op),
		slog.String("field", id))
	return n, nil
}

func fieldNotFound(fields formfield.Schema, id string) error {
	if fields.Has(id) {
		return nil
	}
	return errors.NewNotFound("field", id)
}

func (svc *FormService) Editor(ctx context.Context, tenant string) (*formfield.Editor, error) {
	fields, err := svc.load(ctx, tenant)
	if err != nil {
		return nil, err
	}
	editor := svc.catalog.EditorView(fields)
	return &editor, nil
}

func (svc *FormService) Render(ctx context.Context, tenant string, values formfield.Values) (*formfield.FormState, error) {
	fields, err := svc.load(ctx, tenant)
	if err != nil {
		return nil, err
	}
	state := formfield.Render(fields, values)
	return &state, nil
}

// Submit 校验通过后把可见字段的值转发给 intake，校验不通过时 Accepted 为 false
func (svc *FormService) Submit(ctx context.Context, tenant string, values formfield.Values) (*leadclient.SubmitResult, error) {
	fields, err := svc.load(ctx, tenant)
	if err != nil {
		return nil, err
	}

	report := formfield.ValidateSchema(fields, values)
	if !report.Valid {
		return &leadclient.SubmitResult{
			Accepted: false,
			Report:   report,
		}, nil
	}

	lead := &leads.Lead{
		Tenant:      tenant,
		Fields:      formfield.BuildPayload(fields, values),
		SubmittedAt: svc.Now(),
	}
	if svc.intake != nil {
		if err := svc.intake.Submit(ctx, lead); err != nil {
			return nil, errors.WithHTTPCode(err, http.StatusBadGateway)
		}
	}
	svc.logger.InfoContext(ctx, "lead is submitted",
		leadclient.Tenant(tenant),
		slog.Int("fields", len(lead.Fields)))
	return &leadclient.SubmitResult{
		Accepted:    true,
		Report:      report,
		Payload:     lead.Fields,
		SubmittedAt: lead.SubmittedAt,
	}, nil
}

func (svc *FormService) AddPreset(ctx context.Context, tenant, presetID string) (formfield.Schema, error) {
	if !svc.catalog.IsPreset(presetID) {
		return nil, errors.NewNotFound("preset", presetID)
	}
	return svc.update(ctx, tenant, "add_preset", presetID, func(fields formfield.Schema) (formfield.Schema, error) {
		return svc.catalog.AddPreset(fields, presetID), nil
	})
}

func (svc *FormService) AddCustomField(ctx context.Context, tenant string, field *leadclient.CustomField) (*leadclient.CustomFieldResult, error) {
	if field == nil {
		return nil, errors.NewBadArgument(errors.New("field is missing"), "AddCustomField", "field")
	}
	if err := svc.validator.Struct(field); err != nil {
		return nil, err
	}
	if !field.Type.Valid() {
		return nil, errors.NewBadArgument(errors.New("type is invalid"), "AddCustomField", "type", field.Type)
	}

	var id string
	fields, err := svc.update(ctx, tenant, "add_custom", "", func(fields formfield.Schema) (formfield.Schema, error) {
		var n formfield.Schema
		n, id = svc.catalog.AddCustomField(fields, field.ToField())
		if id == "" {
			return nil, errors.NewValidationError("custom field is rejected, options or condition is invalid", nil)
		}
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return &leadclient.CustomFieldResult{
		ID:     id,
		Fields: fields,
	}, nil
}

func (svc *FormService) UpdateField(ctx context.Context, tenant, id string, patch *formfield.FieldPatch) (formfield.Schema, error) {
	if patch == nil {
		return nil, errors.NewBadArgument(errors.New("patch is missing"), "UpdateField", "patch")
	}
	return svc.update(ctx, tenant, "update", id, func(fields formfield.Schema) (formfield.Schema, error) {
		if err := fieldNotFound(fields, id); err != nil {
			return nil, err
		}
		return svc.catalog.UpdateField(fields, id, *patch), nil
	})
}

func (svc *FormService) DeleteField(ctx context.Context, tenant, id string) (formfield.Schema, error) {
	return svc.update(ctx, tenant, "delete", id, func(fields formfield.Schema) (formfield.Schema, error) {
		if err := fieldNotFound(fields, id); err != nil {
			return nil, err
		}
		return svc.catalog.DeleteField(fields, id), nil
	})
}

func (svc *FormService) ToggleEnabled(ctx context.Context, tenant, id string) (formfield.Schema, error) {
	return svc.update(ctx, tenant, "toggle_enabled", id, func(fields formfield.Schema) (formfield.Schema, error) {
		if err := fieldNotFound(fields, id); err != nil {
			return nil, err
		}
		return svc.catalog.ToggleEnabled(fields, id), nil
	})
}

func (svc *FormService) ToggleRequired(ctx context.Context, tenant, id string) (formfield.Schema, error) {
	return svc.update(ctx, tenant, "toggle_required", id, func(fields formfield.Schema) (formfield.Schema, error) {
		if err := fieldNotFound(fields, id); err != nil {
			return nil, err
		}
		return svc.catalog.ToggleRequired(fields, id), nil
	})
}

func (svc *FormService) SetOptions(ctx context.Context, tenant, id string, options []formfield.Option) (formfield.Schema, error) {
	if err := svc.validator.Struct(&leadclient.OptionsRequest{Options: options}); err != nil {
		return nil, err
	}
	return svc.update(ctx, tenant, "set_options", id, func(fields formfield.Schema) (formfield.Schema, error) {
		if err := fieldNotFound(fields, id); err != nil {
			return nil, err
		}
		return svc.catalog.SetOptions(fields, id, options), nil
	})
}

// SetCondition cond 为 nil 时清除条件，无效的条件返回 400 错误
func (svc *FormService) SetCondition(ctx context.Context, tenant, id string, cond *formfield.Condition) (formfield.Schema, error) {
	return svc.update(ctx, tenant, "set_condition", id, func(fields formfield.Schema) (formfield.Schema, error) {
		if err := fieldNotFound(fields, id); err != nil {
			return nil, err
		}
		n := svc.catalog.SetCondition(fields, id, cond)
		if cond != nil {
			if f, _ := n.Find(id); f.Condition == nil {
				return nil, errors.NewValidationError("condition of '"+id+"' is invalid", cond)
			}
		}
		return n, nil
	})
}

func (svc *FormService) Reorder(ctx context.Context, tenant, dragged, target string) (formfield.Schema, error) {
	if err := svc.validator.Struct(&leadclient.ReorderRequest{Dragged: dragged, Target: target}); err != nil {
		return nil, err
	}
	return svc.update(ctx, tenant, "reorder", dragged, func(fields formfield.Schema) (formfield.Schema, error) {
		if err := fieldNotFound(fields, dragged); err != nil {
			return nil, err
		}
		if err := fieldNotFound(fields, target); err != nil {
			return nil, err
		}
		return formfield.Reorder(fields, dragged, target), nil
	})
}

var exportTitles = []string{"ID", "Type", "Label", "Placeholder", "Required", "Enabled", "Order", "Options", "DependsOn", "ShowWhen"}

// Export 导出租户的字段，启用的字段按顺序在前，禁用的字段在后
func (svc *FormService) Export(ctx context.Context, tenant string) (exporter.Recorder, error) {
	fields, err := svc.load(ctx, tenant)
	if err != nil {
		return nil, err
	}

	editor := svc.catalog.EditorView(fields)
	records := make([][]string, 0, len(editor.Rows))
	for _, row := range editor.Rows {
		f := row.Field
		options := make([]string, 0, len(f.Options))
		for _, o := range f.Options {
			options = append(options, o.Value+"="+o.Label)
		}
		var dependsOn, showWhen string
		if f.Condition != nil {
			dependsOn = f.Condition.DependsOn
			showWhen = formfield.EncodeMulti(f.Condition.ShowWhen.Values)
		}
		order := ""
		if f.Enabled {
			order = strconv.Itoa(f.Order)
		}
		records = append(records, []string{
			f.ID,
			f.Type.String(),
			f.Label,
			f.Placeholder,
			strconv.FormatBool(f.Required),
			strconv.FormatBool(f.Enabled),
			order,
			strings.Join(options, "; "),
			dependsOn,
			showWhen,
		})
	}
	return exporter.Rows(exportTitles, records), nil
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*keyedLock{}}
}

func (km *keyedMutex) Lock(key string) func() {
	km.mu.Lock()
	l := km.locks[key]
	if l == nil {
		l = &keyedLock{}
		km.locks[key] = l
	}
	l.refs++
	km.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		km.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(km.locks, key)
		}
		km.mu.Unlock()
	}
}
