package parser

import (
	"strings"
)

// RTFParser strips RTF control words and groups, keeping the readable text.
// Good enough for the loosely formatted documents the assistant is fed;
// full RTF fidelity is not a goal.
type RTFParser struct{}

func (p *RTFParser) Parse(data []byte) (string, error) {
	var sb strings.Builder
	src := string(data)
	i := 0
	skipGroup := 0 // depth of groups we ignore entirely (\fonttbl etc.)

	for i < len(src) {
		c := src[i]
		switch c {
		case '{', '}':
			if skipGroup > 0 {
				if c == '{' {
					skipGroup++
				} else {
					skipGroup--
				}
			}
			i++
		case '\\':
			word, arg, next := readControl(src, i+1)
			i = next
			if skipGroup > 0 {
				continue
			}
			switch word {
			case "par", "line":
				sb.WriteString("\n")
			case "tab":
				sb.WriteString("\t")
			case "'":
				// \'hh — legacy codepage escape, not valid UTF-8; drop it.
				_ = arg
			case "fonttbl", "colortbl", "stylesheet", "info", "pict":
				skipGroup = 1
			case "u":
				// \uN — unicode code point, N is signed decimal
				if r, ok := parseInt(arg); ok {
					sb.WriteRune(rune(uint16(r)))
					// The character following \uN is a fallback, skip it
					if i < len(src) && src[i] != '\\' && src[i] != '{' && src[i] != '}' {
						i++
					}
				}
			case "\\", "{", "}":
				sb.WriteByte(word[0])
			}
		case '\r', '\n':
			i++
		default:
			if skipGroup == 0 {
				sb.WriteByte(c)
			}
			i++
		}
	}

	return sb.String(), nil
}

// readControl reads an RTF control word (or symbol) starting after the
// backslash, returning the word, its numeric argument text and the index
// of the first byte after the control.
func readControl(src string, i int) (word, arg string, next int) {
	if i >= len(src) {
		return "", "", i
	}
	c := src[i]
	// Control symbols: a single non-letter character
	if !isLetter(c) {
		if c == '\'' {
			// \'hh takes two hex digits
			end := i + 3
			if end > len(src) {
				end = len(src)
			}
			return "'", src[i+1 : end], end
		}
		return string(c), "", i + 1
	}

	start := i
	for i < len(src) && isLetter(src[i]) {
		i++
	}
	word = src[start:i]

	argStart := i
	if i < len(src) && (src[i] == '-' || isDigit(src[i])) {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	arg = src[argStart:i]

	// A single space after the control word is part of it
	if i < len(src) && src[i] == ' ' {
		i++
	}
	return word, arg, i
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
