package command

import "strings"

// Render substitutes {{token}} placeholders in a response template.
// Token names are matched case-insensitively against the map; a
// placeholder whose token is absent is left verbatim so templates can
// carry tokens this version does not know yet.
func Render(template string, tokens map[string]string) string {
	if !strings.Contains(template, "{{") {
		return template
	}
	lower := make(map[string]string, len(tokens))
	for k, v := range tokens {
		lower[strings.ToLower(k)] = v
	}

	var b strings.Builder
	b.Grow(len(template))
	rest := template
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		close := strings.Index(rest[open+2:], "}}")
		if close < 0 {
			b.WriteString(rest)
			return b.String()
		}
		key := rest[open+2 : open+2+close]
		b.WriteString(rest[:open])
		if v, ok := lower[strings.ToLower(key)]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(rest[open : open+2+close+2])
		}
		rest = rest[open+2+close+2:]
	}
}
