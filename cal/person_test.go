package cal_test

import (
	"testing"

	"calcore/cal"
)

func TestPersonFullName(t *testing.T) {
	// case: plain name and email
	func() {
		p := cal.NewPerson("fred", "fred@flintstone.com")
		if got := p.FullName(); got != "fred <fred@flintstone.com>" {
			t.Error("unexpected full name", got)
		}
	}()

	// case: name needing quotes
	func() {
		p := cal.NewPerson("Flintstone, Fred", "fred@flintstone.com")
		if got := p.FullName(); got != `"Flintstone, Fred" <fred@flintstone.com>` {
			t.Error("unexpected full name", got)
		}
	}()

	// case: email only, no angle brackets
	func() {
		p := cal.NewPerson("", "fred@flintstone.com")
		if got := p.FullName(); got != "fred@flintstone.com" {
			t.Error("unexpected full name", got)
		}
	}()

	// case: name only
	func() {
		p := cal.NewPerson("fred", "")
		if got := p.FullName(); got != "fred" {
			t.Error("unexpected full name", got)
		}
	}()
}

func TestPersonFromFullNameRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name  string
		email string
	}{
		{"fred", "fred@flintstone.com"},
		{"Fred Flintstone", "fred@flintstone.com"},
		{"Flintstone, Fred", "fred@flintstone.com"},
		{"", "fred@flintstone.com"},
	} {
		p := cal.NewPerson(tc.name, tc.email)
		parsed := cal.PersonFromFullName(p.FullName())
		if !parsed.Equal(p) {
			t.Errorf("round trip failed: %q -> name=%q email=%q",
				p.FullName(), parsed.GetName(), parsed.GetEmail())
		}
	}
}

func TestPersonFromFullName(t *testing.T) {
	// case: comment contributes to the display name
	func() {
		p := cal.PersonFromFullName("fred@flintstone.com (Fred Flintstone)")
		if p.GetEmail() != "fred@flintstone.com" {
			t.Error("unexpected email", p.GetEmail())
		}
		if p.GetName() != "Fred Flintstone" {
			t.Error("unexpected name", p.GetName())
		}
	}()

	// case: unfinished address, no '@' yet
	func() {
		p := cal.PersonFromFullName("Fred Flintstone <fred")
		if p.GetName() != "Fred Flintstone" {
			t.Error("unexpected name", p.GetName())
		}
		if p.GetEmail() != "fred" {
			t.Error("unexpected email", p.GetEmail())
		}
	}()

	// case: no address at all fails soft
	func() {
		p := cal.PersonFromFullName("Fred   Flintstone")
		if p.GetEmail() != "" {
			t.Error("expected empty email, got", p.GetEmail())
		}
		if p.GetName() != "Fred Flintstone" {
			t.Error("unexpected name", p.GetName())
		}
	}()
}

func TestPersonSetEmailStripsMailto(t *testing.T) {
	var p cal.Person
	p.SetEmail("MAILTO:fred@flintstone.com")
	if p.GetEmail() != "fred@flintstone.com" {
		t.Error("mailto prefix not stripped", p.GetEmail())
	}
	p.SetEmail("mailto:barney@rubble.com")
	if p.GetEmail() != "barney@rubble.com" {
		t.Error("mailto prefix not stripped", p.GetEmail())
	}
}

func TestIsValidEmail(t *testing.T) {
	for email, want := range map[string]bool{
		"a@b":                 false,
		"a@b.co":              true,
		"@flintstone.com":     false,
		"fred@flintstone.com": true,
		"fred.flintstone.com": false,
		"fred@flintstone":     false,
		"f@x.io":              true,
	} {
		if got := cal.IsValidEmail(email); got != want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", email, got, want)
		}
	}
}

func TestPersonHashConsistentWithEqual(t *testing.T) {
	a := cal.NewPerson("fred", "fred@flintstone.com")
	b := cal.NewPerson("fred", "mailto:fred@flintstone.com")
	if !a.Equal(b) {
		t.Error("expected equal persons")
	}
	if a.Hash() != b.Hash() {
		t.Error("equal persons must hash equal")
	}
}

func TestPersonBinaryRoundTrip(t *testing.T) {
	p := cal.NewPerson("Fred Flintstone", "fred@flintstone.com")
	data, err := p.MarshalBinary()
	if err != nil {
		t.Error(err)
	}
	var got cal.Person
	if err := got.UnmarshalBinary(data); err != nil {
		t.Error(err)
	}
	if !got.Equal(p) {
		t.Error("binary round trip changed the person")
	}
}
