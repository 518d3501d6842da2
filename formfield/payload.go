package formfield

import "strings"

const multiSeparator = ","

// EncodeMulti 多选的值用逗号连接，空值会被忽略
func EncodeMulti(values []string) string {
	var kept []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, multiSeparator)
}

// DecodeMulti 是 EncodeMulti 的逆操作
func DecodeMulti(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var values []string
	for _, v := range strings.Split(s, multiSeparator) {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

// BuildPayload 生成提交给留资接口的数据。
//
// 只包含当前可见的字段，即使隐藏的字段还保留着之前的值也不会提交。
func BuildPayload(s Schema, values Values) map[string]string {
	visible := Visible(s, values)
	payload := make(map[string]string, len(visible))
	for _, f := range visible {
		value := values.Get(f.ID)
		switch {
		case f.Type == TypeCheckbox:
			value = EncodeMulti(DecodeMulti(value))
		case f.Type == TypePhone || f.ID == IDPhone:
			value = FormatPhone(value)
		default:
			value = strings.TrimSpace(value)
		}
		payload[f.ID] = value
	}
	return payload
}
