package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
	assert.Equal(t, "hel...", TruncateString("hello world", 6))
	assert.Equal(t, "..", TruncateString("hello", 2))
	assert.Equal(t, "", TruncateString("hello", 0))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "<dir>", FormatSize(-1))
	assert.Equal(t, "0B", FormatSize(0))
	assert.Equal(t, "512B", FormatSize(512))
	assert.Equal(t, "1.0K", FormatSize(1024))
	assert.Equal(t, "1.5M", FormatSize(1536*1024))
	assert.Equal(t, "2.0G", FormatSize(2*1024*1024*1024))
}
