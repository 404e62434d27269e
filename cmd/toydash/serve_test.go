package main

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenPort_DefaultBusyFallsBack(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()
	busy := ln.Addr().(*net.TCPAddr).Port

	port, err := listenPort(busy, false)
	require.NoError(t, err)
	assert.Greater(t, port, busy)
}

func TestListenPort_ExplicitKept(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()
	busy := ln.Addr().(*net.TCPAddr).Port

	port, err := listenPort(busy, true)
	require.NoError(t, err)
	assert.Equal(t, busy, port)
}
