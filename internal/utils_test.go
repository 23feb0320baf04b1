package internal

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestValidEmail(t *testing.T) {
	c := qt.New(t)
	c.Assert(ValidEmail("user@example.com"), qt.IsTrue)
	c.Assert(ValidEmail("user+tag@example.co.uk"), qt.IsTrue)
	c.Assert(ValidEmail("not-an-email"), qt.IsFalse)
	c.Assert(ValidEmail(""), qt.IsFalse)
	c.Assert(ValidEmail("user@"), qt.IsFalse)
}

func TestRandomHex(t *testing.T) {
	c := qt.New(t)
	a := RandomHex(8)
	b := RandomHex(8)
	c.Assert(a, qt.HasLen, 16)
	c.Assert(a, qt.Not(qt.Equals), b)
}

func TestRandomOTPCode(t *testing.T) {
	c := qt.New(t)
	for i := 0; i < 50; i++ {
		code := RandomOTPCode(6)
		c.Assert(code, qt.HasLen, 6)
		for _, r := range code {
			c.Assert(r >= '0' && r <= '9', qt.IsTrue)
		}
	}
}

func TestHexHashPassword(t *testing.T) {
	c := qt.New(t)
	a := HexHashPassword("salt", "password")
	b := HexHashPassword("salt", "password")
	c.Assert(a, qt.Equals, b)
	c.Assert(HexHashPassword("other", "password"), qt.Not(qt.Equals), a)
	c.Assert(HexHashPassword("salt", "other"), qt.Not(qt.Equals), a)
}

func TestHashVerificationCode(t *testing.T) {
	c := qt.New(t)
	a := HashVerificationCode("user@example.com", "123456")
	c.Assert(a, qt.Equals, HashVerificationCode("user@example.com", "123456"))
	c.Assert(a, qt.Not(qt.Equals), HashVerificationCode("user@example.com", "654321"))
}
