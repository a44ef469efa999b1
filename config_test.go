package main

import (
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/nyathea/vanilla-OSX/broker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigUdp(t *testing.T) {
	cfg, err := parseConfig([]string{"--udp"}, flags.None)
	require.NoError(t, err)

	assert.True(t, cfg.Udp)
	assert.False(t, cfg.Local)
	assert.Equal(t, broker.DefaultPort, cfg.Port)
	assert.Equal(t, broker.DefaultSsidPrefix, cfg.SsidPrefix)
	assert.Equal(t, "wpa", cfg.Wifi)
	assert.Empty(t, cfg.Args.Interface)
}

func TestParseConfigLocal(t *testing.T) {
	cfg, err := parseConfig([]string{"--local"}, flags.None)
	require.NoError(t, err)

	assert.True(t, cfg.Local)
	assert.Equal(t, broker.DefaultSocketPath, cfg.Socket)
}

func TestParseConfigTransportIsMandatory(t *testing.T) {
	_, err := parseConfig([]string{}, flags.None)
	assert.Error(t, err)
}

func TestParseConfigTransportsAreMutuallyExclusive(t *testing.T) {
	_, err := parseConfig([]string{"--local", "--udp"}, flags.None)
	assert.Error(t, err)
}

func TestParseConfigWirelessInterface(t *testing.T) {
	cfg, err := parseConfig([]string{"--udp", "wlan1"}, flags.None)
	require.NoError(t, err)

	assert.Equal(t, "wlan1", cfg.Args.Interface)
}

func TestParseConfigOverrides(t *testing.T) {
	cfg, err := parseConfig([]string{
		"--udp",
		"--port", "11000",
		"--ssid-prefix", "WiiU5",
		"--wifi", "mock",
		"--debug",
	}, flags.None)
	require.NoError(t, err)

	assert.Equal(t, 11000, cfg.Port)
	assert.Equal(t, "WiiU5", cfg.SsidPrefix)
	assert.Equal(t, "mock", cfg.Wifi)
	assert.True(t, cfg.Debug)
}

func TestParseConfigRejectsUnknownProvider(t *testing.T) {
	_, err := parseConfig([]string{"--udp", "--wifi", "corewlan"}, flags.None)
	assert.Error(t, err)
}
