package template

import (
	"strings"

	"github.com/arthur-debert/xavr/pkg/errors"
)

// expand replaces every {name} in text with its value in scope
func expand(text string, scope Scope) (string, error) {
	if !strings.ContainsAny(text, "{}") {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexAny(text[i+1:], "{}")
			if end < 0 || text[i+1+end] != '}' {
				return "", errors.New(errors.ErrTemplateSyntax, "unclosed '{' in placeholder").
					WithDetail("column", i+1)
			}
			key := text[i+1 : i+1+end]
			if key == "" {
				return "", errors.New(errors.ErrTemplateSyntax, "empty placeholder '{}'").
					WithDetail("column", i+1)
			}
			value, ok := scope[key]
			if !ok {
				return "", errors.Newf(errors.ErrTemplatePlaceholder, "unknown placeholder {%s}", key).
					WithDetail("key", key)
			}
			b.WriteString(value)
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", errors.New(errors.ErrTemplateSyntax, "single '}' outside a placeholder").
				WithDetail("column", i+1)
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}
