package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidIMEI(t *testing.T) {
	assert := assert.New(t)

	assert.True(ValidIMEI("123456789012345"))
	assert.False(ValidIMEI("12345678901234"))
	assert.False(ValidIMEI("1234567890123456"))
	assert.False(ValidIMEI("12345678901234a"))
	assert.False(ValidIMEI(""))
}

func TestValidPin(t *testing.T) {
	assert := assert.New(t)

	assert.True(ValidPin("0000"))
	assert.True(ValidPin("1234"))
	assert.False(ValidPin("123"))
	assert.False(ValidPin("12345"))
	assert.False(ValidPin("12ab"))
}

func TestNewInviteCode(t *testing.T) {
	assert := assert.New(t)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewInviteCode()
		assert.NotEmpty(code)
		assert.False(seen[code])
		seen[code] = true
	}
}
