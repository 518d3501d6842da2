package leadclient

import (
	"context"
	"time"

	"github.com/pola2025/leadform/formfield"
)

// FormFields 字段定义的持久化接口，Get 在租户没有保存过字段时返回默认的字段（name, phone），
// Put 整体替换租户的字段。
type FormFields interface {
	// @Summary 读租户的表单字段
	// @Router  /forms/{tenant}/fields [get]
	Get(ctx context.Context, tenant string) (formfield.Schema, error)

	// @Summary 整体替换租户的表单字段
	// @Router  /forms/{tenant}/fields [put]
	Put(ctx context.Context, tenant string, fields formfield.Schema) error
}

// Forms 门户编辑器和公开表单使用的全部操作，编辑操作都返回修改后的字段
type Forms interface {
	FormFields

	// @Router  /forms/{tenant}/editor [get]
	Editor(ctx context.Context, tenant string) (*formfield.Editor, error)

	// @Router  /forms/{tenant}/render [post]
	Render(ctx context.Context, tenant string, values formfield.Values) (*formfield.FormState, error)

	// @Router  /forms/{tenant}/submit [post]
	Submit(ctx context.Context, tenant string, values formfield.Values) (*SubmitResult, error)

	// @Router  /forms/{tenant}/fields/presets/{preset} [post]
	AddPreset(ctx context.Context, tenant, presetID string) (formfield.Schema, error)

	// @Router  /forms/{tenant}/fields/custom [post]
	AddCustomField(ctx context.Context, tenant string, field *CustomField) (*CustomFieldResult, error)

	// @Router  /forms/{tenant}/fields/{id} [patch]
	UpdateField(ctx context.Context, tenant, id string, patch *formfield.FieldPatch) (formfield.Schema, error)

	// @Router  /forms/{tenant}/fields/{id} [delete]
	DeleteField(ctx context.Context, tenant, id string) (formfield.Schema, error)

	// @Router  /forms/{tenant}/fields/{id}/toggle_enabled [post]
	ToggleEnabled(ctx context.Context, tenant, id string) (formfield.Schema, error)

	// @Router  /forms/{tenant}/fields/{id}/toggle_required [post]
	ToggleRequired(ctx context.Context, tenant, id string) (formfield.Schema, error)

	// @Router  /forms/{tenant}/fields/{id}/options [put]
	SetOptions(ctx context.Context, tenant, id string, options []formfield.Option) (formfield.Schema, error)

	// @Router  /forms/{tenant}/fields/{id}/condition [put]
	SetCondition(ctx context.Context, tenant, id string, cond *formfield.Condition) (formfield.Schema, error)

	// @Router  /forms/{tenant}/fields/reorder [post]
	Reorder(ctx context.Context, tenant, dragged, target string) (formfield.Schema, error)
}

// CustomField 新建自定义字段的请求
type CustomField struct {
	Type        formfield.Type       `json:"type" validate:"required"`
	Label       string               `json:"label" validate:"required,max=50"`
	Placeholder string               `json:"placeholder" validate:"max=100"`
	Required    bool                 `json:"required"`
	Options     []formfield.Option   `json:"options,omitempty" validate:"max=50"`
	Condition   *formfield.Condition `json:"condition,omitempty"`
}

func (cf *CustomField) ToField() formfield.Field {
	return formfield.Field{
		Type:        cf.Type,
		Label:       cf.Label,
		Placeholder: cf.Placeholder,
		Required:    cf.Required,
		Options:     cf.Options,
		Condition:   cf.Condition,
	}
}

type CustomFieldResult struct {
	ID     string           `json:"id"`
	Fields formfield.Schema `json:"fields"`
}

type ReorderRequest struct {
	Dragged string `json:"dragged" validate:"required"`
	Target  string `json:"target" validate:"required"`
}

type OptionsRequest struct {
	Options []formfield.Option `json:"options" validate:"required,min=1,max=50"`
}

type ConditionRequest struct {
	Condition *formfield.Condition `json:"condition"`
}

type ValuesRequest struct {
	Values formfield.Values `json:"values"`
}

// SubmitResult 提交的结果，校验不通过时 Accepted 为 false，不会转发给留资接口
type SubmitResult struct {
	Accepted    bool              `json:"accepted"`
	Report      formfield.Report  `json:"report"`
	Payload     map[string]string `json:"payload,omitempty"`
	SubmittedAt time.Time         `json:"submittedAt,omitempty"`
}
