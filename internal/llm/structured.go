package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON decodes the first JSON object or array found in a model
// reply. Replies often arrive wrapped in markdown fences or prose and may
// carry JS-style comments, trailing commas or numbers written as ".5";
// all of that is repaired before decoding. A non-nil validate runs on the
// decoded value. Every failure wraps ErrInvalidOutput.
func ExtractJSON[T any](reply string, validate func(T) error) (T, error) {
	var out T
	payload, ok := firstJSONValue(reply)
	if !ok {
		return out, fmt.Errorf("%w: reply holds no JSON value", ErrInvalidOutput)
	}
	if err := json.Unmarshal([]byte(repairJSON(payload)), &out); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validate != nil {
		if err := validate(out); err != nil {
			var zero T
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return out, nil
}

// jsonScanner tracks whether the bytes seen so far leave us inside a
// string literal.
type jsonScanner struct {
	quoted, escaped bool
}

// literal consumes c and reports whether it is part of a string literal,
// including the surrounding quotes.
func (sc *jsonScanner) literal(c byte) bool {
	if sc.escaped {
		sc.escaped = false
		return true
	}
	if sc.quoted && c == '\\' {
		sc.escaped = true
		return true
	}
	if c == '"' {
		sc.quoted = !sc.quoted
		return true
	}
	return sc.quoted
}

// firstJSONValue finds the first balanced {...} or [...] in s. Fence
// lines are ignored since a fence can open with "```json".
func firstJSONValue(s string) (string, bool) {
	var body strings.Builder
	for line := range strings.Lines(s) {
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			body.WriteString(line)
		}
	}
	text := body.String()

	open := strings.IndexAny(text, "{[")
	if open < 0 {
		return "", false
	}
	var sc jsonScanner
	depth := 0
	for i := open; i < len(text); i++ {
		c := text[i]
		if sc.literal(c) {
			continue
		}
		switch c {
		case '{', '[':
			depth++
		case '}', ']':
			if depth--; depth == 0 {
				return text[open : i+1], true
			}
		}
	}
	return "", false
}

// repairJSON rewrites the non-standard syntax models tend to emit. It
// drops // and /* */ comments, removes commas directly before a closing
// bracket and turns ".5" into "0.5". String contents are left alone.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var sc jsonScanner
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.literal(c) {
			b.WriteByte(c)
			continue
		}
		switch {
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += end + 3
		case c == ',' && closesNext(s, i+1):
		case c == '.' && i+1 < len(s) && isDigit(s[i+1]) && startsNumber(lastSignificant(b.String())):
			b.WriteString("0.")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// closesNext reports whether the next significant byte from i closes an
// object or array. Comments count as insignificant.
func closesNext(s string, i int) bool {
	for i < len(s) {
		switch {
		case isSpace(s[i]):
			i++
		case strings.HasPrefix(s[i:], "//"):
			nl := strings.IndexByte(s[i:], '\n')
			if nl < 0 {
				return false
			}
			i += nl + 1
		case strings.HasPrefix(s[i:], "/*"):
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return false
			}
			i += end + 4
		default:
			return s[i] == '}' || s[i] == ']'
		}
	}
	return false
}

func lastSignificant(s string) byte {
	for i := len(s) - 1; i >= 0; i-- {
		if !isSpace(s[i]) {
			return s[i]
		}
	}
	return 0
}

// startsNumber reports whether a number may begin right after c.
func startsNumber(c byte) bool {
	return c == 0 || strings.IndexByte(":,[{-", c) >= 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
