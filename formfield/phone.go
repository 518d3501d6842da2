package formfield

import (
	"regexp"
	"strings"
)

const maxPhoneDigits = 11

var completePhonePattern = regexp.MustCompile(`^(01[016789]-\d{3,4}-\d{4}|02-\d{3,4}-\d{4}|0[3-6][1-5]-\d{3,4}-\d{4}|070-\d{4}-\d{4})$`)

// PhoneDigits 只保留数字，最多 11 位
func PhoneDigits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			if sb.Len() >= maxPhoneDigits {
				break
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// FormatPhone 输入时的格式化，逐步插入连字符：
//
//	"0101234"      -> "010-1234"
//	"01012345678"  -> "010-1234-5678"
//	"0212345678"   -> "02-1234-5678"
func FormatPhone(s string) string {
	d := PhoneDigits(s)
	if strings.HasPrefix(d, "02") {
		switch {
		case len(d) <= 2:
			return d
		case len(d) <= 5:
			return d[:2] + "-" + d[2:]
		case len(d) <= 9:
			return d[:2] + "-" + d[2:5] + "-" + d[5:]
		default:
			return d[:2] + "-" + d[2:6] + "-" + d[6:]
		}
	}

	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 7:
		return d[:3] + "-" + d[3:]
	case len(d) <= 10:
		return d[:3] + "-" + d[3:6] + "-" + d[6:]
	default:
		return d[:3] + "-" + d[3:7] + "-" + d[7:]
	}
}

// IsCompletePhone 是否为一个完整的、已格式化的电话号码，比如 010-1234-5678
func IsCompletePhone(s string) bool {
	return completePhonePattern.MatchString(strings.TrimSpace(s))
}
