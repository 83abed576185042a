package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmatyas/twopane/internal/config"
)

func TestNewPipeline(t *testing.T) {
	pipe := newPipeline(config.Defaults())

	require.NotNil(t, pipe.reader)
	require.NotNil(t, pipe.service)
	require.NotNil(t, pipe.detector)
	require.NotNil(t, pipe.provider)
	require.NotNil(t, pipe.builder)
	require.NotNil(t, pipe.flags)
	require.NotNil(t, pipe.broker)
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
	assert.Equal(t, "1.2.3", rootCmd.Version)
	SetVersion("dev")
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["menu"])
	assert.True(t, names["apps"])
	assert.True(t, names["cache"])
}
