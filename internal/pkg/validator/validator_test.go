package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a.user+tag@example.co.id"))
	assert.True(t, IsValidEmail("user@example.com"))
	assert.False(t, IsValidEmail("user@"))
	assert.False(t, IsValidEmail("user example.com"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("2026-08-30")
	assert.True(t, ok)
	assert.Equal(t, 2026, d.Year())

	_, ok = IsValidDate("30-08-2026")
	assert.False(t, ok)

	_, ok = IsValidDate("2026-13-01")
	assert.False(t, ok)
}

func TestIsValidClockTime(t *testing.T) {
	ct, ok := IsValidClockTime("09:30")
	assert.True(t, ok)
	assert.Equal(t, 9, ct.Hour())
	assert.Equal(t, 30, ct.Minute())

	_, ok = IsValidClockTime("25:00")
	assert.False(t, ok)

	_, ok = IsValidClockTime("9am")
	assert.False(t, ok)
}

func TestIsValidNationalID(t *testing.T) {
	assert.True(t, IsValidNationalID("1234567890123456"))
	assert.False(t, IsValidNationalID("123456789012345"))   // 15 digits
	assert.False(t, IsValidNationalID("12345678901234567")) // 17 digits
	assert.False(t, IsValidNationalID("123456789012345a"))
}

func TestIsValidPunchPIN(t *testing.T) {
	assert.True(t, IsValidPunchPIN("1234"))
	assert.True(t, IsValidPunchPIN("123456"))
	assert.False(t, IsValidPunchPIN("123"))
	assert.False(t, IsValidPunchPIN("1234567"))
	assert.False(t, IsValidPunchPIN("12a4"))
}

func TestIsValidRoundingStrategy(t *testing.T) {
	assert.True(t, IsValidRoundingStrategy("nearest"))
	assert.True(t, IsValidRoundingStrategy("up"))
	assert.True(t, IsValidRoundingStrategy("down"))
	assert.False(t, IsValidRoundingStrategy("ceil"))
	assert.False(t, IsValidRoundingStrategy(""))
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "name", Message: "name is required"},
		{Field: "email", Message: "email is invalid"},
	}

	m := errs.ToMap()
	assert.Len(t, m, 2)
	assert.Equal(t, "name is required", m["name"])
	assert.Contains(t, errs.Error(), "email: email is invalid")
}
