package formfield

import (
	"fmt"
	"strings"
)

// IssueCode 完整性问题的分类
type IssueCode string

const (
	IssueDuplicateID       IssueCode = "duplicate_id"
	IssueEmptyID           IssueCode = "empty_id"
	IssueInvalidType       IssueCode = "invalid_type"
	IssueEmptyLabel        IssueCode = "empty_label"
	IssueMissingBase       IssueCode = "missing_base"
	IssueBaseDisabled      IssueCode = "base_disabled"
	IssueNotRequired       IssueCode = "not_required"
	IssuePresetType        IssueCode = "preset_type"
	IssueMissingOptions    IssueCode = "missing_options"
	IssueUnexpectedOptions IssueCode = "unexpected_options"
	IssueDuplicateOption   IssueCode = "duplicate_option"
	IssueInvalidCondition  IssueCode = "invalid_condition"
	IssueOrderConflict     IssueCode = "order_conflict"
)

// Issue 一个完整性问题
type Issue struct {
	FieldID string    `json:"fieldId,omitempty"`
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	if i.FieldID == "" {
		return string(i.Code) + ": " + i.Message
	}
	return i.FieldID + ": " + string(i.Code) + ": " + i.Message
}

// Check 检查从外部（接口、存储）收到的 Schema 是否满足所有的不变量，
// 编辑操作产生的 Schema 总是能通过检查。
func (c *Catalog) Check(s Schema) []Issue {
	var issues []Issue
	add := func(id string, code IssueCode, format string, args ...interface{}) {
		issues = append(issues, Issue{FieldID: id, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	seen := map[string]int{}
	for idx, f := range s {
		if strings.TrimSpace(f.ID) == "" {
			add("", IssueEmptyID, "field #%d has no id", idx)
			continue
		}
		if _, ok := seen[f.ID]; ok {
			add(f.ID, IssueDuplicateID, "id is used more than once")
			continue
		}
		seen[f.ID] = idx

		if !f.Type.Valid() {
			add(f.ID, IssueInvalidType, "type '%s' is invalid", f.Type)
		}
		if strings.TrimSpace(f.Label) == "" {
			add(f.ID, IssueEmptyLabel, "label is empty")
		}
		if preset, ok := c.Preset(f.ID); ok && preset.Type != f.Type {
			add(f.ID, IssuePresetType, "type must be '%s'", preset.Type)
		}
		if c.IsProtected(f.ID) && !f.Required {
			add(f.ID, IssueNotRequired, "field must be required")
		}

		if f.Type.HasOptions() {
			if len(f.Options) == 0 {
				add(f.ID, IssueMissingOptions, "options are required for type '%s'", f.Type)
			}
			values := map[string]struct{}{}
			for _, o := range f.Options {
				if _, ok := values[o.Value]; ok {
					add(f.ID, IssueDuplicateOption, "option '%s' is duplicated", o.Value)
				}
				values[o.Value] = struct{}{}
			}
		} else if len(f.Options) > 0 {
			add(f.ID, IssueUnexpectedOptions, "options are not allowed for type '%s'", f.Type)
		}
	}

	for _, base := range c.base {
		idx, ok := seen[base.ID]
		if !ok {
			add(base.ID, IssueMissingBase, "base field is missing")
			continue
		}
		if !s[idx].Enabled {
			add(base.ID, IssueBaseDisabled, "base field must be enabled")
		}
	}

	for _, f := range s {
		if f.Condition == nil {
			continue
		}
		if c.IsBase(f.ID) {
			add(f.ID, IssueInvalidCondition, "base field cannot have a condition")
			continue
		}
		// 依赖的字段被禁用是允许的，此时本字段总是隐藏
		if !checkCondition(s, f.ID, f.Condition, false) {
			add(f.ID, IssueInvalidCondition, "condition on '%s' is invalid", f.Condition.DependsOn)
		}
	}

	// 重新启用的字段保留原来的 order，可能与其它字段重复，与间隔一样由 Normalize 整理
	for _, idx := range enabledIndexes(s) {
		if f := s[idx]; f.Order < 0 {
			add(f.ID, IssueOrderConflict, "order %d is negative", f.Order)
		}
	}
	return issues
}

func Check(s Schema) []Issue {
	return DefaultCatalog.Check(s)
}
