package parse

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
)

// NormalizeHas quotes the argument of every has(...) in sel, for selector
// engines that insist on it. The string is rebuilt in one left-to-right pass
// tracking parenthesis depth; arguments that are already quoted are kept.
// Unbalanced parentheses return sel unchanged.
func NormalizeHas(sel string) string {
	if !strings.Contains(sel, "has(") {
		return sel
	}
	var (
		b     strings.Builder
		depth int
		// has( 打开时的深度，用于找到对应的右括号
		open []int
	)
	b.Grow(len(sel) + 8)
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		switch c {
		case '(':
			depth++
			b.WriteByte(c)
			if i >= 3 && sel[i-3:i] == "has" {
				if i+1 < len(sel) && (sel[i+1] == '"' || sel[i+1] == '\'') {
					continue
				}
				b.WriteByte('"')
				open = append(open, depth)
			}
		case ')':
			if depth == 0 {
				return sel
			}
			if n := len(open); n > 0 && open[n-1] == depth {
				b.WriteByte('"')
				open = open[:n-1]
			}
			depth--
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	if depth != 0 || len(open) != 0 {
		return sel
	}
	return b.String()
}

// unquoteHas is the inverse for engines that reject quoted arguments.
func unquoteHas(sel string) string {
	r := strings.NewReplacer(`has("`, "has(", `has('`, "has(", `")`, ")", `')`, ")")
	return r.Replace(sel)
}

// CompileList compiles the row selector of a definition. The normalized form
// is tried first, then the original, then an unquoted variant; the first one
// the selector engine accepts is used.
func CompileList(raw string) (cascadia.Selector, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, "", fmt.Errorf("empty list selector")
	}
	var lastErr error
	seen := make(map[string]bool, 3)
	for _, cand := range []string{NormalizeHas(raw), raw, unquoteHas(raw)} {
		if seen[cand] {
			continue
		}
		seen[cand] = true
		sel, err := cascadia.Compile(cand)
		if err == nil {
			return sel, cand, nil
		}
		lastErr = err
	}
	return nil, raw, fmt.Errorf("compile list selector %q: %w", raw, lastErr)
}
