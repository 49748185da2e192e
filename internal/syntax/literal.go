package syntax

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// decodeString evaluates a Python string literal as written in the source. It
// reports false for bytes and f-strings, which are not str constants.
func decodeString(raw string) (string, bool) {
	i := strings.IndexAny(raw, `'"`)
	if i < 0 {
		return "", false
	}

	prefix := strings.ToLower(raw[:i])
	if strings.ContainsAny(prefix, "bf") {
		return "", false
	}
	isRaw := strings.Contains(prefix, "r")

	body := raw[i:]
	quote := body[:1]
	if strings.HasPrefix(body, strings.Repeat(quote, 3)) && len(body) >= 6 {
		quote = strings.Repeat(quote, 3)
	}
	if !strings.HasPrefix(body, quote) || !strings.HasSuffix(body, quote) || len(body) < 2*len(quote) {
		return "", false
	}
	body = body[len(quote) : len(body)-len(quote)]
	body = normalizeNewlines(body)

	if isRaw {
		return body, true
	}
	return unescape(body), true
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}

		i++
		switch e := s[i]; e {
		case '\n':
			// Line continuation.
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case 'x':
			i += writeCodePoint(&b, s, i, 2)
		case 'u':
			i += writeCodePoint(&b, s, i, 4)
		case 'U':
			i += writeCodePoint(&b, s, i, 8)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			n := 1
			for n < 3 && i+n < len(s) && s[i+n] >= '0' && s[i+n] <= '7' {
				n++
			}
			v, _ := strconv.ParseUint(s[i:i+n], 8, 32)
			b.WriteRune(rune(v))
			i += n - 1
		default:
			// Unknown escapes are kept verbatim, including \N{...}.
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String()
}

// writeCodePoint decodes the n hex digits following s[at] and returns how many
// bytes it consumed. Malformed sequences are copied through unchanged.
func writeCodePoint(b *strings.Builder, s string, at, n int) int {
	if at+n >= len(s) {
		b.WriteByte('\\')
		b.WriteByte(s[at])
		return 0
	}
	v, err := strconv.ParseUint(s[at+1:at+1+n], 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		b.WriteByte('\\')
		b.WriteByte(s[at])
		return 0
	}
	b.WriteRune(rune(v))
	return n
}

// normalizeNewlines turns CRLF and lone CR line endings into LF, as the Python
// tokenizer does before a literal is evaluated.
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
