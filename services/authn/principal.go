package authn

import (
	"context"

	"github.com/pola2025/leadform/errors"
)

// AdminAudience 后台管理员的 token，可以编辑任何租户的表单
const AdminAudience = "admin"

// PortalAudience 租户门户的 token，只能编辑 Subject 指定的租户
const PortalAudience = "portal"

// Principal 当前请求的身份
type Principal struct {
	Tenant string
	Admin  bool
}

// CanEdit 是否可以编辑指定租户的表单
func (p Principal) CanEdit(tenant string) bool {
	return p.Admin || (p.Tenant != "" && p.Tenant == tenant)
}

type principalKey string

func (s principalKey) constPrincipalKey() {} // nolint:unused

const PrincipalKey = principalKey("leadform-principal-key")

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	o := ctx.Value(PrincipalKey)
	if o == nil {
		return Principal{}, false
	}
	p, ok := o.(Principal)
	return p, ok
}

// CheckTenant 当前身份是否可以编辑 tenant，没有身份时返回 ErrUnauthorized
func CheckTenant(ctx context.Context, tenant string) error {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return errors.Wrap(errors.ErrUnauthorized, "principal isnot exists because session is unauthorized")
	}
	if !p.CanEdit(tenant) {
		return errors.WithKeyValue(errors.ErrTenantMismatch, "tenant", tenant)
	}
	return nil
}
