package charset

import "strings"

// metaRunes must be escaped outside of a class.
const metaRunes = `\()[]{}?*+|.^$`

// classMetaRunes must be escaped inside a class.
const classMetaRunes = `\[]^-`

var controlEscapes = map[rune]byte{
	0:    '0',
	0x07: 'a',
	0x08: 'b',
	'\t': 't',
	'\n': 'n',
	0x0b: 'v',
	0x0c: 'f',
	'\r': 'r',
	0x1b: 'e',
}

// Unescape returns the rune denoted by the escape sequence `\c`.
func Unescape(c rune) rune {
	switch c {
	case '0':
		return 0
	case 'a':
		return 0x07
	case 'b':
		return 0x08
	case 's':
		return ' '
	case 't':
		return '\t'
	case 'n':
		return '\n'
	case 'v':
		return 0x0b
	case 'f':
		return 0x0c
	case 'r':
		return '\r'
	case 'e':
		return 0x1b
	}
	return c
}

// EscapeRune renders r so that the pattern parser reads it back as a
// literal outside of a class.
func EscapeRune(r rune) string {
	return escape(r, metaRunes)
}

func escapeClassRune(r rune) string {
	return escape(r, classMetaRunes)
}

func escape(r rune, meta string) string {
	if c, ok := controlEscapes[r]; ok {
		return `\` + string(c)
	}
	if strings.ContainsRune(meta, r) {
		return `\` + string(r)
	}
	return string(r)
}
