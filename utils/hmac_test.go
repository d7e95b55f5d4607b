package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeHMACSHA256(t *testing.T) {
	sig := ComputeHMACSHA256("secret", []byte(`{"type":"video.asset.ready"}`))

	assert.Len(t, sig, 64)
	assert.Equal(t, sig, ComputeHMACSHA256("secret", []byte(`{"type":"video.asset.ready"}`)))

	// Any change to key or message changes the signature.
	assert.NotEqual(t, sig, ComputeHMACSHA256("secret2", []byte(`{"type":"video.asset.ready"}`)))
	assert.NotEqual(t, sig, ComputeHMACSHA256("secret", []byte(`{"type":"video.asset.errored"}`)))
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, SecureCompare("abc", "abc"))
	assert.False(t, SecureCompare("abc", "abd"))
	assert.False(t, SecureCompare("abc", "abcd"))
	assert.False(t, SecureCompare("", "abc"))
	assert.True(t, SecureCompare("", ""))
}
