// Package formfield 是落地页表单字段的引擎。
//
// 租户在门户里编辑的字段定义（Schema）会被解释两次：一次用于渲染和校验公开的
// 留资表单，一次用于渲染编辑器本身。本包只包含纯函数，所有状态都通过参数显式传入。
package formfield

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pola2025/leadform/errors"
)

// Type 字段类型，是一个封闭的集合
type Type string

const (
	TypeText     Type = "text"
	TypeTextarea Type = "textarea"
	TypePhone    Type = "phone"
	TypeEmail    Type = "email"
	TypeNumber   Type = "number"
	TypeDate     Type = "date"
	TypeSelect   Type = "select"
	TypeRadio    Type = "radio"
	TypeCheckbox Type = "checkbox"
)

var allTypes = []Type{
	TypeText,
	TypeTextarea,
	TypePhone,
	TypeEmail,
	TypeNumber,
	TypeDate,
	TypeSelect,
	TypeRadio,
	TypeCheckbox,
}

// Types 返回所有的字段类型
func Types() []Type {
	return append([]Type(nil), allTypes...)
}

func (t Type) Valid() bool {
	for _, v := range allTypes {
		if v == t {
			return true
		}
	}
	return false
}

// HasOptions 是否需要选项列表（select, radio, checkbox）
func (t Type) HasOptions() bool {
	return t == TypeSelect || t == TypeRadio || t == TypeCheckbox
}

// IsChoice 是否为单选类型，只有单选类型的字段才能作为显示条件的依赖
func (t Type) IsChoice() bool {
	return t == TypeSelect || t == TypeRadio
}

func (t Type) String() string {
	return string(t)
}

func (t *Type) UnmarshalText(bs []byte) error {
	v := Type(strings.ToLower(strings.TrimSpace(string(bs))))
	if !v.Valid() {
		return errors.WithKeyValue(errors.New("field type '"+string(bs)+"' is invalid"), "type", string(bs))
	}
	*t = v
	return nil
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ShowWhen 显示条件的取值，可以是一个值或者一组值。
//
// 序列化时，单个值输出为字符串，列表输出为数组。
type ShowWhen struct {
	Values []string
	List   bool
}

// Equals 依赖字段的值等于 value 时显示
func Equals(value string) ShowWhen {
	return ShowWhen{Values: []string{value}}
}

// OneOf 依赖字段的值属于 values 之一时显示
func OneOf(values ...string) ShowWhen {
	return ShowWhen{Values: append([]string(nil), values...), List: true}
}

func (sw ShowWhen) Match(value string) bool {
	for _, v := range sw.Values {
		if v == value {
			return true
		}
	}
	return false
}

func (sw ShowWhen) IsZero() bool {
	return len(sw.Values) == 0
}

func (sw ShowWhen) clone() ShowWhen {
	return ShowWhen{Values: append([]string(nil), sw.Values...), List: sw.List}
}

func (sw ShowWhen) MarshalJSON() ([]byte, error) {
	if !sw.List && len(sw.Values) == 1 {
		return json.Marshal(sw.Values[0])
	}
	if sw.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(sw.Values)
}

// UnmarshalJSON 接受字符串或字符串数组，null 解码为空的 ShowWhen（不匹配任何值）
func (sw *ShowWhen) UnmarshalJSON(bs []byte) error {
	bs = bytes.TrimSpace(bs)
	if bytes.Equal(bs, []byte("null")) {
		*sw = ShowWhen{}
		return nil
	}
	if bytes.HasPrefix(bs, []byte("[")) {
		var values []string
		if err := json.Unmarshal(bs, &values); err != nil {
			return errors.Wrap(err, "showWhen is invalid")
		}
		sw.Values = values
		sw.List = true
		return nil
	}
	var value string
	if err := json.Unmarshal(bs, &value); err != nil {
		return errors.Wrap(err, "showWhen is invalid")
	}
	sw.Values = []string{value}
	sw.List = false
	return nil
}

// Condition 单跳的显示条件：只有当 DependsOn 字段的当前值匹配 ShowWhen 时本字段才显示
type Condition struct {
	DependsOn string   `json:"dependsOn"`
	ShowWhen  ShowWhen `json:"showWhen"`
}

func (c *Condition) clone() *Condition {
	if c == nil {
		return nil
	}
	return &Condition{DependsOn: c.DependsOn, ShowWhen: c.ShowWhen.clone()}
}

// Field 一个表单字段的定义
type Field struct {
	ID          string     `json:"id"`
	Type        Type       `json:"type"`
	Label       string     `json:"label"`
	Placeholder string     `json:"placeholder"`
	Required    bool       `json:"required"`
	Enabled     bool       `json:"enabled"`
	Order       int        `json:"order"`
	Options     []Option   `json:"options,omitempty"`
	Condition   *Condition `json:"condition,omitempty"`
}

func (f Field) Clone() Field {
	c := f
	if f.Options != nil {
		c.Options = append([]Option(nil), f.Options...)
	}
	c.Condition = f.Condition.clone()
	return c
}

// HasOption 字段是否提供了值为 value 的选项
func (f Field) HasOption(value string) bool {
	for _, o := range f.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Schema 一个租户的表单字段集合，也是持久化的单位
type Schema []Field

func (s Schema) Clone() Schema {
	if s == nil {
		return nil
	}
	c := make(Schema, len(s))
	for idx := range s {
		c[idx] = s[idx].Clone()
	}
	return c
}

func (s Schema) IndexOf(id string) int {
	for idx := range s {
		if s[idx].ID == id {
			return idx
		}
	}
	return -1
}

// Find 查找指定的字段，返回的是一个副本
func (s Schema) Find(id string) (Field, bool) {
	idx := s.IndexOf(id)
	if idx < 0 {
		return Field{}, false
	}
	return s[idx].Clone(), true
}

func (s Schema) Has(id string) bool {
	return s.IndexOf(id) >= 0
}

// Values 是表单当前的输入值，多选值用逗号连接
type Values map[string]string

func (v Values) Get(id string) string {
	if v == nil {
		return ""
	}
	return v[id]
}
