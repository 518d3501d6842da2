package formfield

// Visible 返回当前输入值下应该显示（和提交）的字段，按 Order 排序。
//
// 一个字段的显示只取决于它依赖的那个字段的原始值。如果依赖的字段不存在、被禁用
// 或者它自己也被隐藏了，那么它的值被视为空字符串，依赖它的字段也就跟着隐藏了。
// 出现循环依赖时，回到环上的依赖被视为隐藏。
func Visible(s Schema, values Values) []Field {
	r := newResolver(s, values)
	ordered := Ordered(s)
	fields := make([]Field, 0, len(ordered))
	for _, f := range ordered {
		if r.visible(f.ID) {
			fields = append(fields, f)
		}
	}
	return fields
}

// VisibleIDs 同 Visible，只返回 id
func VisibleIDs(s Schema, values Values) []string {
	fields := Visible(s, values)
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		ids = append(ids, f.ID)
	}
	return ids
}

// IsVisible 指定的字段在当前输入值下是否显示
func IsVisible(s Schema, values Values, id string) bool {
	return newResolver(s, values).visible(id)
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	shown
	hidden
)

type resolver struct {
	schema Schema
	values Values
	states map[string]visitState
}

func newResolver(s Schema, values Values) *resolver {
	return &resolver{
		schema: s,
		values: values,
		states: make(map[string]visitState, len(s)),
	}
}

func (r *resolver) visible(id string) bool {
	switch r.states[id] {
	case shown:
		return true
	case hidden, visiting:
		return false
	}

	idx := r.schema.IndexOf(id)
	if idx < 0 || !r.schema[idx].Enabled {
		r.states[id] = hidden
		return false
	}

	cond := r.schema[idx].Condition
	if cond == nil {
		r.states[id] = shown
		return true
	}

	r.states[id] = visiting
	value := ""
	if r.visible(cond.DependsOn) {
		value = r.values.Get(cond.DependsOn)
	}
	if cond.ShowWhen.Match(value) {
		r.states[id] = shown
		return true
	}
	r.states[id] = hidden
	return false
}
