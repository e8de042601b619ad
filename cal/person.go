package cal

import (
	"bytes"
	"hash/fnv"
	"strings"
)

// A calendar user: display name plus email address. The email never
// carries a "mailto:" prefix; setters strip it case-insensitively.
type Person struct {
	name  string
	email string
}

func NewPerson(name string, email string) Person {
	var p Person
	p.SetName(name)
	p.SetEmail(email)
	return p
}

// Parse an RFC-822-ish "Display Name <local@domain>" string or a bare
// address. Extraction fails soft: a string with no usable address still
// yields a Person carrying whatever name text was collected.
func PersonFromFullName(fullName string) Person {
	name, email := extractEmailAddressAndName(fullName)
	return NewPerson(name, email)
}

// #region Getters

func (p *Person) GetName() string {
	return p.name
}

func (p *Person) GetEmail() string {
	return p.email
}

// #endregion

// #region Setters

func (p *Person) SetName(name string) {
	p.name = name
}

func (p *Person) SetEmail(email string) {
	p.email = stripMailto(email)
}

// #endregion

// Both name and email unset.
func (p *Person) IsEmpty() bool {
	return p.name == "" && p.email == ""
}

// "Name <email>" with the name wrapped in double quotes when it
// contains anything beyond spaces, ASCII alphanumerics and printable
// non-ASCII text. Name-only and email-only persons degrade to just the
// part that is set.
func (p *Person) FullName() string {
	if p.name == "" {
		return p.email
	}
	if p.email == "" {
		return p.name
	}
	name := p.name
	if nameNeedsQuotes(name) {
		if !strings.HasPrefix(name, `"`) {
			name = `"` + name
		}
		if !strings.HasSuffix(name, `"`) {
			name = name + `"`
		}
	}
	return name + " <" + p.email + ">"
}

func (p *Person) Equal(other Person) bool {
	return p.name == other.name && p.email == other.email
}

// FNV-1a over FullName(), consistent with Equal.
func (p *Person) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(p.FullName()))
	return h.Sum64()
}

// Deliberately weak syntactic check, not RFC validation: an '@' past
// the first character, a '.' somewhere after it, and at least four
// characters following the '@'.
func IsValidEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 &&
		strings.LastIndex(email, ".") > at &&
		len(email)-at > 4
}

func (p *Person) serialize(sw *streamWriter) {
	sw.writeString(p.name)
	sw.writeString(p.email)
	sw.writeInt32(0) // reserved
}

func (p *Person) deserialize(sr *streamReader) {
	p.name = sr.readString()
	p.email = sr.readString()
	sr.readInt32() // reserved
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *Person) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	sw := newStreamWriter(&buf)
	p.serialize(sw)
	if err := sw.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *Person) UnmarshalBinary(data []byte) error {
	sr := newStreamReader(bytes.NewReader(data))
	p.deserialize(sr)
	return sr.Err()
}

func stripMailto(email string) string {
	if len(email) >= 7 && strings.EqualFold(email[:7], "mailto:") {
		return email[7:]
	}
	return email
}

func nameNeedsQuotes(name string) bool {
	for _, r := range name {
		switch {
		case r == ' ':
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= 0x80 && r <= 0xFFFF:
		default:
			return true
		}
	}
	return false
}
