package node

import (
	"strings"
	"unicode/utf8"
)

// PreviewText 生成单行日志预览：空白折叠为单个空格，超过 maxRunes 时截断并追加省略号
func PreviewText(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + "…"
		}
		n++
	}
	return s
}
