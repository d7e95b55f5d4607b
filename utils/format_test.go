package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", FormatDuration(0))
	assert.Equal(t, "0:59", FormatDuration(59))
	assert.Equal(t, "1:00", FormatDuration(60))
	assert.Equal(t, "2:05", FormatDuration(125))
	assert.Equal(t, "2:05", FormatDuration(125.9))

	// Minutes past the hour are not rolled over.
	assert.Equal(t, "61:01", FormatDuration(3661))
}
