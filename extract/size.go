package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	unitRe = regexp.MustCompile(`(?i)[KMGTPI]*B?`)
	// 只接受普通十进制数，NaN、Inf、科学计数法都不算
	plainNumRe = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// ParseSize converts "1,024.5 MB" style text into bytes. Units are binary;
// anything that does not leave a plain number behind, or overflows int64,
// yields 0.
func ParseSize(text string) int64 {
	if text == "" {
		return 0
	}
	text = strings.ToUpper(strings.NewReplacer(",", "", " ", "", "\n", "", "\t", "").Replace(text))
	digits := unitRe.ReplaceAllString(text, "")
	if !plainNumRe.MatchString(digits) {
		return 0
	}
	num, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	switch {
	case strings.Contains(text, "PB") || strings.Contains(text, "PIB"):
		num *= math.Pow(1024, 5)
	case strings.Contains(text, "TB") || strings.Contains(text, "TIB"):
		num *= math.Pow(1024, 4)
	case strings.Contains(text, "GB") || strings.Contains(text, "GIB"):
		num *= math.Pow(1024, 3)
	case strings.Contains(text, "MB") || strings.Contains(text, "MIB"):
		num *= math.Pow(1024, 2)
	case strings.Contains(text, "KB") || strings.Contains(text, "KIB"):
		num *= 1024
	}
	num = math.Round(num)
	if num >= float64(math.MaxInt64) {
		return 0
	}
	return int64(num)
}

// ParseCount reads counters such as "1,234" or "12/3" (first part wins).
// Negative, non-numeric or overflowing text counts as 0.
func ParseCount(text string) int {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "/"); i >= 0 {
		text = text[:i]
	}
	text = strings.NewReplacer(",", "", " ", "").Replace(text)
	if !plainNumRe.MatchString(text) {
		return 0
	}
	n, err := strconv.Atoi(text)
	if err == nil {
		return n
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f >= float64(math.MaxInt) {
		return 0
	}
	return int(f)
}
