package cal

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Pull a display name and an address out of free-form "Name <email>"
// text. The scan pivots on the first '@' that sits outside of any
// parenthesized comment and outside of quoted text; comments and quoted
// spans contribute to the display name minus their delimiters. Runs of
// whitespace collapse to single spaces on the way out.
func extractEmailAddressAndName(s string) (string, string) {
	runes := []rune(s)
	length := len(runes)

	// locate the unguarded '@'
	at := -1
	depth := 0
	inQuotes := false
	for i := 0; i < length; i++ {
		c := runes[i]
		if c == '(' {
			depth++
		}
		if c == ')' && depth > 0 {
			depth--
		}
		if c == '"' && depth == 0 {
			inQuotes = !inQuotes
		}
		if depth == 0 && !inQuotes && c == '@' {
			at = i
			break
		}
	}

	if at < 0 {
		// No address yet, probably still being typed. Whatever sits
		// before the first '<' is the name, the rest up to a trailing
		// '>' is the address.
		lt := strings.IndexRune(s, '<')
		if lt < 0 {
			return simplify(s), ""
		}
		addr := strings.TrimSpace(s[lt+1:])
		addr = strings.TrimSuffix(addr, ">")
		return simplify(s[:lt]), strings.TrimSpace(addr)
	}

	var nameBuf, mailBuf []rune

	// walk backward from the '@' to the previous unguarded ',' or the
	// start, collecting the local part and the leading name text
	inComment := false
	inQuotes = false
	mailStart := -1
backward:
	for i := at - 1; i >= 0; i-- {
		c := runes[i]
		switch {
		case inComment:
			if c == '(' {
				if len(nameBuf) > 0 {
					nameBuf = append(nameBuf, ' ')
				}
				inComment = false
			} else {
				nameBuf = append(nameBuf, c)
			}
		case inQuotes:
			if c == '"' {
				inQuotes = false
			} else if c != '\\' {
				nameBuf = append(nameBuf, c)
			}
		default:
			if c == ',' {
				break backward
			}
			if mailStart >= 0 {
				if c == '"' {
					inQuotes = true
				} else if c != '\\' {
					nameBuf = append(nameBuf, c)
				}
				continue
			}
			switch c {
			case '<':
				mailStart = i
			case ')':
				if len(nameBuf) > 0 {
					nameBuf = append(nameBuf, ' ')
				}
				inComment = true
			default:
				if c != ' ' {
					mailBuf = append(mailBuf, c)
				}
			}
		}
	}
	reverseRunes(nameBuf)
	reverseRunes(mailBuf)

	if len(mailBuf) == 0 {
		// empty local part, no usable address
		return simplify(string(nameBuf)), ""
	}
	mailBuf = append(mailBuf, '@')

	// walk forward from the '@' to the next unguarded ',' or the end,
	// collecting the domain part and any trailing comment text
	inComment = false
	inQuotes = false
	nesting := 0
	mailEnd := -1
forward:
	for i := at + 1; i < length; i++ {
		c := runes[i]
		switch {
		case inComment:
			if c == ')' {
				nesting--
				if nesting == 0 {
					inComment = false
					if len(nameBuf) > 0 {
						nameBuf = append(nameBuf, ' ')
					}
				} else {
					nameBuf = append(nameBuf, c)
				}
			} else {
				if c == '(' {
					nesting++
				}
				nameBuf = append(nameBuf, c)
			}
		case inQuotes:
			if c == '"' {
				inQuotes = false
			} else if c != '\\' {
				nameBuf = append(nameBuf, c)
			}
		default:
			if c == ',' {
				break forward
			}
			if mailEnd >= 0 {
				if c == '"' {
					inQuotes = true
				} else if c != '\\' {
					nameBuf = append(nameBuf, c)
				}
				continue
			}
			switch c {
			case '>':
				mailEnd = i
			case '(':
				if len(nameBuf) > 0 {
					nameBuf = append(nameBuf, ' ')
				}
				nesting++
				inComment = true
			default:
				if c != ' ' {
					mailBuf = append(mailBuf, c)
				}
			}
		}
	}

	name := simplify(string(nameBuf))
	mail := simplify(string(mailBuf))
	if strings.HasSuffix(mail, "@") {
		// empty domain part, no usable address
		return name, ""
	}
	return name, mail
}

// Collapse whitespace runs, trim, and NFC-normalize.
func simplify(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

func reverseRunes(r []rune) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}
