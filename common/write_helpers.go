package common

const hexDigits = "0123456789abcdef"

// WriteJSONString writes s as a JSON string literal, escaping quotes, backslashes, solidus and control bytes.
// Bytes above 0x7f are copied as is; the output stream is responsible for UTF-8 validity.
func WriteJSONString(s []byte, w WriteBuffer) {
	_ = w.WriteByte('"')
	start := 0
	for i, c := range s {
		var esc string
		switch c {
		case '"':
			esc = `\"`
		case '\\':
			esc = `\\`
		case '/':
			esc = `\/`
		case '\b':
			esc = `\b`
		case '\f':
			esc = `\f`
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		case '\t':
			esc = `\t`
		default:
			if c >= 0x20 {
				continue
			}
		}
		_, _ = w.Write(s[start:i])
		if esc != "" {
			_, _ = w.WriteString(esc)
		} else {
			_, _ = w.WriteString(`\u00`)
			_ = w.WriteByte(hexDigits[c>>4])
			_ = w.WriteByte(hexDigits[c&0xf])
		}
		start = i + 1
	}
	_, _ = w.Write(s[start:])
	_ = w.WriteByte('"')
}

func WriteJSONStringFromString(s string, w WriteBuffer) {
	WriteJSONString([]byte(s), w)
}

// writeAnyEscapedString escapes the characters that are special in tab separated output and the given quote.
func writeAnyEscapedString(s []byte, quote byte, w WriteBuffer) {
	start := 0
	for i, c := range s {
		var esc string
		switch c {
		case '\b':
			esc = `\b`
		case '\f':
			esc = `\f`
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		case '\t':
			esc = `\t`
		case 0:
			esc = `\0`
		case '\\':
			esc = `\\`
		default:
			if c != quote {
				continue
			}
			esc = string([]byte{'\\', quote})
		}
		_, _ = w.Write(s[start:i])
		_, _ = w.WriteString(esc)
		start = i + 1
	}
	_, _ = w.Write(s[start:])
}

func WriteEscapedString(s []byte, w WriteBuffer) {
	writeAnyEscapedString(s, '\'', w)
}

func WriteQuotedString(s []byte, w WriteBuffer) {
	_ = w.WriteByte('\'')
	writeAnyEscapedString(s, '\'', w)
	_ = w.WriteByte('\'')
}
