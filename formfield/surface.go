package formfield

// FieldState 公开表单中一个可见字段的渲染状态
type FieldState struct {
	Field   Field   `json:"field"`
	Value   string  `json:"value"`
	Valid   bool    `json:"valid"`
	Problem Problem `json:"problem,omitempty"`
}

// FormState 公开表单的渲染结果，CanSubmit 为 false 时提交按钮不可用
type FormState struct {
	Fields    []FieldState `json:"fields"`
	CanSubmit bool         `json:"canSubmit"`
}

// Render 计算公开表单在当前输入值下的状态
func Render(s Schema, values Values) FormState {
	visible := Visible(s, values)
	state := FormState{
		Fields:    make([]FieldState, 0, len(visible)),
		CanSubmit: true,
	}
	for _, f := range visible {
		value := values.Get(f.ID)
		p := CheckField(f, value)
		state.Fields = append(state.Fields, FieldState{
			Field:   f,
			Value:   value,
			Valid:   p == ProblemNone,
			Problem: p,
		})
		if p != ProblemNone {
			state.CanSubmit = false
		}
	}
	return state
}

// EditorRow 编辑器中的一行，带有该字段允许的操作
type EditorRow struct {
	Field             Field `json:"field"`
	Protected         bool  `json:"protected"`
	Preset            bool  `json:"preset"`
	CanDelete         bool  `json:"canDelete"`
	CanToggleEnabled  bool  `json:"canToggleEnabled"`
	CanToggleRequired bool  `json:"canToggleRequired"`
	CanEditType       bool  `json:"canEditType"`
	CanReorder        bool  `json:"canReorder"`
	DeleteDisables    bool  `json:"deleteDisables"`
}

// Editor 编辑器的视图：先是按顺序排列的启用字段，然后是禁用字段，
// AvailablePresets 是还可以添加的预置字段（不存在或者已禁用）
type Editor struct {
	Rows             []EditorRow `json:"rows"`
	AvailablePresets []Field     `json:"availablePresets"`
}

// EditorView 生成编辑器的视图
func (c *Catalog) EditorView(s Schema) Editor {
	rows := make([]EditorRow, 0, len(s))
	for _, f := range Ordered(s) {
		rows = append(rows, c.editorRow(f))
	}
	for _, f := range s {
		if !f.Enabled {
			rows = append(rows, c.editorRow(f.Clone()))
		}
	}

	available := []Field{}
	for _, p := range c.ListOptionalPresets() {
		if idx := s.IndexOf(p.ID); idx >= 0 && s[idx].Enabled {
			continue
		}
		available = append(available, p)
	}
	return Editor{Rows: rows, AvailablePresets: available}
}

func (c *Catalog) editorRow(f Field) EditorRow {
	protected := c.IsProtected(f.ID)
	base := c.IsBase(f.ID)
	return EditorRow{
		Field:             f,
		Protected:         protected,
		Preset:            c.IsPreset(f.ID),
		CanDelete:         !base && (f.Enabled || !c.IsPreset(f.ID)),
		CanToggleEnabled:  !base,
		CanToggleRequired: !protected,
		CanEditType:       !c.IsPreset(f.ID),
		CanReorder:        f.Enabled,
		DeleteDisables:    c.DeleteDisables(f.ID),
	}
}

func EditorView(s Schema, c *Catalog) Editor {
	if c == nil {
		c = DefaultCatalog
	}
	return c.EditorView(s)
}
