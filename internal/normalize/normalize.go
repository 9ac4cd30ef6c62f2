// internal/normalize/normalize.go
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	durationRe   = regexp.MustCompile(`(\d+)\s*hrs?\.\s*(\d+)\s*mins?\.`)
	onSaleRe     = regexp.MustCompile(`\s*- On Sale!.*$`)
	backgroundRe = regexp.MustCompile(`background-image:\s*url\(([^)]+)\)`)
)

// Minutes converts a "{H} hr(s). {M} min(s)." duration into total minutes.
// Text that does not match yields 0.
func Minutes(text string) int {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	return hours*60 + mins
}

// Count parses a thousands-separated integer such as "12,345".
// Empty or non-numeric input yields 0.
func Count(text string) int {
	cleaned := strings.ReplaceAll(Space(text), ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// LocalPath splits url on "/" and returns the segment at index,
// or "" when the url is empty or too short.
func LocalPath(url string, index int) string {
	if url == "" || index < 0 {
		return ""
	}
	parts := strings.Split(url, "/")
	if index >= len(parts) {
		return ""
	}
	return parts[index]
}

// IDFromHref returns the path segment following the leading slash of href
// ("/12345/some-title.html" -> "12345").
func IDFromHref(href string) string {
	return LocalPath(strings.TrimSpace(href), 1)
}

// Space collapses runs of whitespace into single spaces and trims the result.
func Space(text string) string {
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}

// CleanTitle collapses whitespace and drops a trailing "- On Sale!" marketing suffix.
func CleanTitle(text string) string {
	return strings.TrimSpace(onSaleRe.ReplaceAllString(Space(text), ""))
}

// BackgroundURL extracts the url(...) argument of an inline background-image style.
func BackgroundURL(style string) string {
	m := backgroundRe.FindStringSubmatch(style)
	if m == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(m[1]), `"'`)
}

// StripLabel removes a leading label such as "Length:" and trims what remains.
func StripLabel(text, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), label))
}
