package formfield

const (
	IDName      = "name"
	IDPhone     = "phone"
	IDEmail     = "email"
	IDAddress   = "address"
	IDBirthdate = "birthdate"
	IDGender    = "gender"
	IDCompany   = "company"
	IDMemo      = "memo"
)

var (
	Name = Field{
		ID:          IDName,
		Type:        TypeText,
		Label:       "이름",
		Placeholder: "홍길동",
		Required:    true,
		Enabled:     true,
	}
	Phone = Field{
		ID:          IDPhone,
		Type:        TypePhone,
		Label:       "연락처",
		Placeholder: "010-0000-0000",
		Required:    true,
		Enabled:     true,
	}
	Email = Field{
		ID:          IDEmail,
		Type:        TypeEmail,
		Label:       "이메일",
		Placeholder: "example@email.com",
		Required:    true,
		Enabled:     true,
	}
	Address = Field{
		ID:          IDAddress,
		Type:        TypeText,
		Label:       "주소",
		Placeholder: "주소를 입력해주세요",
		Enabled:     true,
	}
	Birthdate = Field{
		ID:          IDBirthdate,
		Type:        TypeDate,
		Label:       "생년월일",
		Placeholder: "YYYY-MM-DD",
		Enabled:     true,
	}
	Gender = Field{
		ID:      IDGender,
		Type:    TypeRadio,
		Label:   "성별",
		Enabled: true,
		Options: []Option{
			{Value: "male", Label: "남성"},
			{Value: "female", Label: "여성"},
		},
	}
	Company = Field{
		ID:          IDCompany,
		Type:        TypeText,
		Label:       "회사명",
		Placeholder: "회사명을 입력해주세요",
		Enabled:     true,
	}
	Memo = Field{
		ID:          IDMemo,
		Type:        TypeTextarea,
		Label:       "문의사항",
		Placeholder: "문의하실 내용을 입력해주세요",
		Enabled:     true,
	}

	DefaultBasePresets     = []Field{Name, Phone}
	DefaultOptionalPresets = []Field{Email, Address, Birthdate, Gender, Company, Memo}
)

// Catalog 内置字段的注册表，以及哪些字段受保护（不能删除，不能修改必填）
type Catalog struct {
	base     []Field
	optional []Field
}

// DefaultCatalog 包级别的函数都使用它
var DefaultCatalog = NewCatalog(nil)

// NewCatalog 创建一个目录，overrides 只能修改可选预置字段的 Label, Placeholder 和 Options，
// 基本字段和保护规则不会被覆盖。
func NewCatalog(overrides []Field) *Catalog {
	c := &Catalog{
		base:     cloneFields(DefaultBasePresets),
		optional: cloneFields(DefaultOptionalPresets),
	}
	for _, o := range overrides {
		for idx := range c.optional {
			if c.optional[idx].ID != o.ID {
				continue
			}
			if o.Label != "" {
				c.optional[idx].Label = o.Label
			}
			if o.Placeholder != "" {
				c.optional[idx].Placeholder = o.Placeholder
			}
			if c.optional[idx].Type.HasOptions() {
				if opts := dedupeOptions(o.Options); len(opts) > 0 {
					c.optional[idx].Options = opts
				}
			}
		}
	}
	return c
}

func cloneFields(fields []Field) []Field {
	c := make([]Field, len(fields))
	for idx := range fields {
		c[idx] = fields[idx].Clone()
	}
	return c
}

func (c *Catalog) ListBasePresets() []Field {
	return cloneFields(c.base)
}

func (c *Catalog) ListOptionalPresets() []Field {
	return cloneFields(c.optional)
}

// Preset 按 id 查找预置字段（基本字段或可选字段）
func (c *Catalog) Preset(id string) (Field, bool) {
	for _, f := range c.base {
		if f.ID == id {
			return f.Clone(), true
		}
	}
	for _, f := range c.optional {
		if f.ID == id {
			return f.Clone(), true
		}
	}
	return Field{}, false
}

func (c *Catalog) IsPreset(id string) bool {
	_, ok := c.Preset(id)
	return ok
}

func (c *Catalog) IsBase(id string) bool {
	for _, f := range c.base {
		if f.ID == id {
			return true
		}
	}
	return false
}

// IsProtected 基本字段和 email 受保护：不能被物理删除，必填标志也不能切换
func (c *Catalog) IsProtected(id string) bool {
	return c.IsBase(id) || id == IDEmail
}

// DefaultSchema 租户还没有保存过字段时使用的字段集合
func (c *Catalog) DefaultSchema() Schema {
	s := make(Schema, 0, len(c.base))
	for idx, f := range c.base {
		f = f.Clone()
		f.Order = idx
		s = append(s, f)
	}
	return s
}

func ListBasePresets() []Field {
	return DefaultCatalog.ListBasePresets()
}

func ListOptionalPresets() []Field {
	return DefaultCatalog.ListOptionalPresets()
}

func IsProtected(id string) bool {
	return DefaultCatalog.IsProtected(id)
}

func IsBase(id string) bool {
	return DefaultCatalog.IsBase(id)
}

func DefaultSchema() Schema {
	return DefaultCatalog.DefaultSchema()
}
