package util

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAvailablePort_SkipsBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()
	busy := ln.Addr().(*net.TCPAddr).Port

	port, err := FindAvailablePort(busy, 20)
	require.NoError(t, err)
	assert.NotEqual(t, busy, port)
	assert.Greater(t, port, busy)
}

func TestLocalURL(t *testing.T) {
	assert.Equal(t, "http://localhost:20262", LocalURL(20262))
}
