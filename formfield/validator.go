package formfield

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Problem 字段校验失败的原因
type Problem string

const (
	ProblemNone     Problem = ""
	ProblemRequired Problem = "required"
	ProblemName     Problem = "name"
	ProblemPhone    Problem = "phone"
	ProblemEmail    Problem = "email"
)

const maxNameLength = 50

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateName 人名的形状检查：不能为空，至少有一个字母，只允许字母、
// 空格和 . ' - · 这几个符号
func ValidateName(s string) bool {
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" || utf8.RuneCountInString(s) > maxNameLength {
		return false
	}
	hasLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.Is(unicode.Mn, r), r == ' ', r == '.', r == '\'', r == '-', r == '·':
		default:
			return false
		}
	}
	return hasLetter
}

func ValidateEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// CheckField 检查一个字段的值，返回失败的原因，非必填的字段总是通过
func CheckField(f Field, value string) Problem {
	if !f.Required {
		return ProblemNone
	}

	switch {
	case f.ID == IDName:
		if !ValidateName(value) {
			return ProblemName
		}
	case f.Type == TypePhone || f.ID == IDPhone:
		if !IsCompletePhone(value) {
			return ProblemPhone
		}
	case f.Type == TypeEmail || f.ID == IDEmail:
		if !ValidateEmail(value) {
			return ProblemEmail
		}
	case f.Type == TypeCheckbox:
		if len(DecodeMulti(value)) == 0 {
			return ProblemRequired
		}
	default:
		if strings.TrimSpace(value) == "" {
			return ProblemRequired
		}
	}
	return ProblemNone
}

// ValidateField 字段的值是否有效
func ValidateField(f Field, value string) bool {
	return CheckField(f, value) == ProblemNone
}

// Report 整个表单的校验结果
type Report struct {
	Valid    bool               `json:"valid"`
	Invalid  []string           `json:"invalid,omitempty"`
	Problems map[string]Problem `json:"problems,omitempty"`
}

// Validate 只对 visible 中的字段进行校验，隐藏的必填字段不会影响结果
func Validate(visible []Field, values Values) Report {
	report := Report{Valid: true}
	for _, f := range visible {
		p := CheckField(f, values.Get(f.ID))
		if p == ProblemNone {
			continue
		}
		report.Valid = false
		report.Invalid = append(report.Invalid, f.ID)
		if report.Problems == nil {
			report.Problems = map[string]Problem{}
		}
		report.Problems[f.ID] = p
	}
	return report
}

// ValidateSchema 先计算可见字段，再进行校验
func ValidateSchema(s Schema, values Values) Report {
	return Validate(Visible(s, values), values)
}
