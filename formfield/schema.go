package formfield

import (
	"strings"

	"github.com/google/uuid"
)

// 以下的修改函数都不会修改传入的 Schema，而是返回一个新的 Schema。
// 无效的请求（未知的 id，受保护的字段等）不会报错，只是返回一个未修改的副本，
// 编辑器是直接面向租户的，宁可忽略也不要失败。

const CustomIDPrefix = "custom_"

// NewFieldID 生成自定义字段的 id，测试时可以替换
var NewFieldID = func() string {
	return CustomIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func (c *Catalog) newFieldID(s Schema) string {
	for {
		id := NewFieldID()
		if !s.Has(id) && !c.IsPreset(id) {
			return id
		}
	}
}

// AddPreset 添加一个预置字段。
//
// 如果该字段已经存在（之前被禁用了），那么重新启用它并移到启用字段的最后，
// 保留它原来的配置；否则从目录中生成它。目录中没有的 id 不做任何修改。
func (c *Catalog) AddPreset(s Schema, presetID string) Schema {
	preset, ok := c.Preset(presetID)
	if !ok {
		return s.Clone()
	}

	n := Normalize(s)
	if idx := n.IndexOf(presetID); idx >= 0 {
		if n[idx].Enabled {
			return n
		}
		n[idx].Enabled = true
		n[idx].Order = nextOrder(n)
		if c.IsProtected(presetID) {
			n[idx].Required = true
		}
		return n
	}

	preset.Enabled = true
	preset.Order = nextOrder(n)
	return append(n, preset)
}

// AddCustomField 添加一个自定义字段，返回新的 Schema 和生成的 id。
//
// 以下情况会被拒绝，返回未修改的副本和空的 id：
//   - Label 为空
//   - 类型无效
//   - 需要选项的类型没有有效的选项
//   - 指定了预置字段的 id
func (c *Catalog) AddCustomField(s Schema, def Field) (Schema, string) {
	def = def.Clone()
	def.Label = strings.TrimSpace(def.Label)
	if def.Label == "" || !def.Type.Valid() || c.IsPreset(def.ID) {
		return s.Clone(), ""
	}
	if def.Type.HasOptions() {
		def.Options = dedupeOptions(def.Options)
		if len(def.Options) == 0 {
			return s.Clone(), ""
		}
	} else {
		def.Options = nil
	}

	n := Normalize(s)
	def.ID = c.newFieldID(n)
	def.Enabled = true
	def.Order = nextOrder(n)
	if def.Condition != nil && !validCondition(n, def.ID, def.Condition) {
		def.Condition = nil
	}
	return append(n, def), def.ID
}

// ToggleEnabled 切换字段的启用状态，不会修改 Order。
//
// 基本字段（name, phone）必须一直启用，所以对它们不做任何修改。
func (c *Catalog) ToggleEnabled(s Schema, id string) Schema {
	n := s.Clone()
	idx := n.IndexOf(id)
	if idx < 0 || c.IsBase(id) {
		return n
	}
	n[idx].Enabled = !n[idx].Enabled
	return n
}

// ToggleRequired 切换字段的必填标志，受保护的字段不能切换
func (c *Catalog) ToggleRequired(s Schema, id string) Schema {
	n := s.Clone()
	idx := n.IndexOf(id)
	if idx < 0 || c.IsProtected(id) {
		return n
	}
	n[idx].Required = !n[idx].Required
	return n
}

// SetOptions 整体替换字段的选项，只对 select, radio, checkbox 有效。
//
// 依赖本字段的显示条件中，不再存在的值会被移除，如果一个值都不剩，该条件会被清除。
func (c *Catalog) SetOptions(s Schema, id string, options []Option) Schema {
	n := s.Clone()
	idx := n.IndexOf(id)
	if idx < 0 || !n[idx].Type.HasOptions() {
		return n
	}
	options = dedupeOptions(options)
	if len(options) == 0 {
		return n
	}
	n[idx].Options = options
	pruneDependents(n, n[idx])
	return n
}

// SetCondition 设置字段的显示条件，cond 为 nil 时清除条件。
//
// 条件在这里就会针对当前的 Schema 进行检查：依赖的字段必须存在、已启用、是 select 或 radio，
// 并且提供了 ShowWhen 中的所有值。检查失败时不做任何修改。
func (c *Catalog) SetCondition(s Schema, id string, cond *Condition) Schema {
	n := s.Clone()
	idx := n.IndexOf(id)
	if idx < 0 {
		return n
	}
	if cond == nil {
		n[idx].Condition = nil
		return n
	}
	if c.IsBase(id) || !validCondition(n, id, cond) {
		return n
	}
	n[idx].Condition = cond.clone()
	return n
}

// FieldPatch 编辑器弹窗中可以修改的内容，nil 表示不修改
type FieldPatch struct {
	Label       *string  `json:"label,omitempty"`
	Placeholder *string  `json:"placeholder,omitempty"`
	Type        *Type    `json:"type,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

// UpdateField 修改字段的 Label, Placeholder；只有自定义字段才能修改类型。
//
// 从选项类型改成非选项类型时会删除选项；改成选项类型时 patch 中必须带有选项。
func (c *Catalog) UpdateField(s Schema, id string, patch FieldPatch) Schema {
	n := s.Clone()
	idx := n.IndexOf(id)
	if idx < 0 {
		return n
	}
	f := n[idx]

	if patch.Label != nil {
		label := strings.TrimSpace(*patch.Label)
		if label == "" {
			return s.Clone()
		}
		f.Label = label
	}
	if patch.Placeholder != nil {
		f.Placeholder = *patch.Placeholder
	}
	if patch.Type != nil && *patch.Type != f.Type {
		if c.IsPreset(id) || !patch.Type.Valid() {
			return s.Clone()
		}
		if patch.Type.HasOptions() {
			options := dedupeOptions(patch.Options)
			if len(options) == 0 {
				options = dedupeOptions(f.Options)
			}
			if len(options) == 0 {
				return s.Clone()
			}
			f.Options = options
		} else {
			f.Options = nil
		}
		f.Type = *patch.Type
	} else if len(patch.Options) > 0 && f.Type.HasOptions() {
		if options := dedupeOptions(patch.Options); len(options) > 0 {
			f.Options = options
		}
	}
	n[idx] = f

	if !f.Type.IsChoice() {
		clearDependents(n, id)
	} else {
		pruneDependents(n, f)
	}
	return n
}

// DeleteField 删除字段。
//
// 基本字段不能删除也不能禁用，不做任何修改；其它预置字段（包括 email）
// 降级为禁用，以便以后可以恢复原来的配置；只有自定义字段才会被真正删除，
// 同时清除依赖它的显示条件。
func (c *Catalog) DeleteField(s Schema, id string) Schema {
	n := s.Clone()
	idx := n.IndexOf(id)
	if idx < 0 || c.IsBase(id) {
		return n
	}
	if c.IsPreset(id) {
		n[idx].Enabled = false
		return n
	}
	n = append(n[:idx], n[idx+1:]...)
	clearDependents(n, id)
	return n
}

// DeleteDisables 删除指定的字段时是否只是禁用它
func (c *Catalog) DeleteDisables(id string) bool {
	return c.IsPreset(id) && !c.IsBase(id)
}

func dedupeOptions(options []Option) []Option {
	if len(options) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	result := make([]Option, 0, len(options))
	for _, o := range options {
		o.Value = strings.TrimSpace(o.Value)
		if o.Value == "" {
			continue
		}
		if _, ok := seen[o.Value]; ok {
			continue
		}
		seen[o.Value] = struct{}{}
		if strings.TrimSpace(o.Label) == "" {
			o.Label = o.Value
		}
		result = append(result, o)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func validCondition(s Schema, id string, cond *Condition) bool {
	return checkCondition(s, id, cond, true)
}

// checkCondition 检查条件的依赖，禁用的依赖字段只在 requireEnabled 时才视为无效
func checkCondition(s Schema, id string, cond *Condition, requireEnabled bool) bool {
	if cond == nil || cond.DependsOn == "" || cond.DependsOn == id || cond.ShowWhen.IsZero() {
		return false
	}
	dep, ok := s.Find(cond.DependsOn)
	if !ok || (requireEnabled && !dep.Enabled) || !dep.Type.IsChoice() || len(dep.Options) == 0 {
		return false
	}
	for _, v := range cond.ShowWhen.Values {
		if !dep.HasOption(v) {
			return false
		}
	}
	return true
}

func clearDependents(s Schema, id string) {
	for idx := range s {
		if s[idx].Condition != nil && s[idx].Condition.DependsOn == id {
			s[idx].Condition = nil
		}
	}
}

func pruneDependents(s Schema, dep Field) {
	for idx := range s {
		cond := s[idx].Condition
		if cond == nil || cond.DependsOn != dep.ID {
			continue
		}
		var kept []string
		for _, v := range cond.ShowWhen.Values {
			if dep.HasOption(v) {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			s[idx].Condition = nil
			continue
		}
		cond.ShowWhen.Values = kept
	}
}

func AddPreset(s Schema, presetID string) Schema {
	return DefaultCatalog.AddPreset(s, presetID)
}

func AddCustomField(s Schema, def Field) (Schema, string) {
	return DefaultCatalog.AddCustomField(s, def)
}

func ToggleEnabled(s Schema, id string) Schema {
	return DefaultCatalog.ToggleEnabled(s, id)
}

func ToggleRequired(s Schema, id string) Schema {
	return DefaultCatalog.ToggleRequired(s, id)
}

func SetOptions(s Schema, id string, options []Option) Schema {
	return DefaultCatalog.SetOptions(s, id, options)
}

func SetCondition(s Schema, id string, cond *Condition) Schema {
	return DefaultCatalog.SetCondition(s, id, cond)
}

func UpdateField(s Schema, id string, patch FieldPatch) Schema {
	return DefaultCatalog.UpdateField(s, id, patch)
}

func DeleteField(s Schema, id string) Schema {
	return DefaultCatalog.DeleteField(s, id)
}
