package core

// EscapeBytes renders raw bytes in the escaped form rabbitmqctl uses:
// printable bytes pass through, anything below 32 or equal to 127 is
// emitted as a backslash followed by three octal digits. Server-named
// queues are byte sequences, not necessarily valid UTF-8, so this is
// the only safe way to show them to an operator.
func EscapeBytes(b []byte) string {
	buf := make([]byte, 0, len(b))
	for _, c := range b {
		if c >= 32 && c != 127 {
			buf = append(buf, c)
			continue
		}
		buf = append(buf, '\\', '0'+(c>>6), '0'+(c>>3&0x7), '0'+(c&0x7))
	}
	return string(buf)
}

// UnescapeBytes reverses EscapeBytes. A backslash followed by three
// octal digits decodes to one byte; any other backslash is literal.
func UnescapeBytes(s string) []byte {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			buf = append(buf, (s[i+1]-'0')<<6|(s[i+2]-'0')<<3|(s[i+3]-'0'))
			i += 3
			continue
		}
		buf = append(buf, s[i])
	}
	return buf
}

func isOctal(c byte) bool { return c >= '0' && c <= '7' }
