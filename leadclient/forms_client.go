package leadclient

import (
	"context"
	"net/url"

	"github.com/pola2025/leadform/formfield"
	"github.com/runner-mei/resty"
)

// FormsClient 是 Forms 的远程实现
type FormsClient struct {
	Proxy *resty.Proxy
	Token string
}

var _ Forms = &FormsClient{}

func NewRemoteForms(pxy *resty.Proxy, token string) *FormsClient {
	return &FormsClient{
		Proxy: pxy,
		Token: token,
	}
}

func (client *FormsClient) newRequest(tenant string, paths ...string) *resty.Request {
	urlstr := "/forms/" + url.PathEscape(tenant)
	for _, p := range paths {
		urlstr += "/" + url.PathEscape(p)
	}
	request := resty.NewRequest(client.Proxy, urlstr)
	if client.Token != "" {
		request = request.SetHeader("Authorization", "Bearer "+client.Token)
	}
	return request
}

func (client *FormsClient) schema(ctx context.Context, method, tenant string, body interface{}, paths ...string) (formfield.Schema, error) {
	var result formfield.Schema
	request := client.newRequest(tenant, paths...).
		Result(&result)
	if body != nil {
		request = request.SetBody(body)
	}
	defer resty.ReleaseRequest(client.Proxy, request)

	var err error
	switch method {
	case "GET":
		err = request.GET(ctx)
	case "PUT":
		err = request.PUT(ctx)
	case "PATCH":
		err = request.PATCH(ctx)
	case "DELETE":
		err = request.DELETE(ctx)
	default:
		err = request.POST(ctx)
	}
	return result, err
}

func (client *FormsClient) Get(ctx context.Context, tenant string) (formfield.Schema, error) {
	return client.schema(ctx, "GET", tenant, nil, "fields")
}

func (client *FormsClient) Put(ctx context.Context, tenant string, fields formfield.Schema) error {
	request := client.newRequest(tenant, "fields").
		SetBody(fields)
	defer resty.ReleaseRequest(client.Proxy, request)
	return request.PUT(ctx)
}

func (client *FormsClient) Editor(ctx context.Context, tenant string) (*formfield.Editor, error) {
	var result formfield.Editor
	request := client.newRequest(tenant, "editor").
		Result(&result)
	defer resty.ReleaseRequest(client.Proxy, request)
	err := request.GET(ctx)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (client *FormsClient) Render(ctx context.Context, tenant string, values formfield.Values) (*formfield.FormState, error) {
	var result formfield.FormState
	request := client.newRequest(tenant, "render").
		SetBody(&ValuesRequest{Values: values}).
		Result(&result)
	defer resty.ReleaseRequest(client.Proxy, request)
	err := request.POST(ctx)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (client *FormsClient) Submit(ctx context.Context, tenant string, values formfield.Values) (*SubmitResult, error) {
	var result SubmitResult
	request := client.newRequest(tenant, "submit").
		SetBody(&ValuesRequest{Values: values}).
		Result(&result)
	defer resty.ReleaseRequest(client.Proxy, request)
	err := request.POST(ctx)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (client *FormsClient) AddPreset(ctx context.Context, tenant, presetID string) (formfield.Schema, error) {
	return client.schema(ctx, "POST", tenant, nil, "fields", "presets", presetID)
}

func (client *FormsClient) AddCustomField(ctx context.Context, tenant string, field *CustomField) (*CustomFieldResult, error) {
	var result CustomFieldResult
	request := client.newRequest(tenant, "fields", "custom").
		SetBody(field).
		Result(&result)
	defer resty.ReleaseRequest(client.Proxy, request)
	err := request.POST(ctx)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (client *FormsClient) UpdateField(ctx context.Context, tenant, id string, patch *formfield.FieldPatch) (formfield.Schema, error) {
	return client.schema(ctx, "PATCH", tenant, patch, "fields", id)
}

func (client *FormsClient) DeleteField(ctx context.Context, tenant, id string) (formfield.Schema, error) {
	return client.schema(ctx, "DELETE", tenant, nil, "fields", id)
}

func (client *FormsClient) ToggleEnabled(ctx context.Context, tenant, id string) (formfield.Schema, error) {
	return client.schema(ctx, "POST", tenant, nil, "fields", id, "toggle_enabled")
}

func (client *FormsClient) ToggleRequired(ctx context.Context, tenant, id string) (formfield.Schema, error) {
	return client.schema(ctx, "POST", tenant, nil, "fields", id, "toggle_required")
}

func (client *FormsClient) SetOptions(ctx context.Context, tenant, id string, options []formfield.Option) (formfield.Schema, error) {
	return client.schema(ctx, "PUT", tenant, &OptionsRequest{Options: options}, "fields", id, "options")
}

func (client *FormsClient) SetCondition(ctx context.Context, tenant, id string, cond *formfield.Condition) (formfield.Schema, error) {
	return client.schema(ctx, "PUT", tenant, &ConditionRequest{Condition: cond}, "fields", id, "condition")
}

func (client *FormsClient) Reorder(ctx context.Context, tenant, dragged, target string) (formfield.Schema, error) {
	return client.schema(ctx, "POST", tenant, &ReorderRequest{Dragged: dragged, Target: target}, "fields", "reorder")
}
