package main

import (
	"os"

	"github.com/go-errors/errors"
	"github.com/jessevdk/go-flags"
	"github.com/nyathea/vanilla-OSX/broker"
)

type config struct {
	Local       bool   `long:"local" description:"Use a local unix socket for IPC (recommended for local frontends)"`
	Udp         bool   `long:"udp" description:"Use a UDP socket for IPC (for remote frontends)"`
	Port        int    `long:"port" description:"UDP command port (with --udp)"`
	Socket      string `long:"socket" description:"Path of the local command socket (with --local)"`
	Wifi        string `long:"wifi" choice:"wpa" choice:"mock" default:"wpa" description:"Wi-Fi capability provider"`
	SsidPrefix  string `long:"ssid-prefix" description:"Naming convention of the target network"`
	Debug       bool   `long:"debug" description:"Enable debug logging"`
	ShowVersion bool   `short:"v" long:"version" description:"Print version and exit"`

	Args struct {
		Interface string `positional-arg-name:"wireless-interface" description:"Wireless interface to use (defaults to the platform default)"`
	} `positional-args:"yes"`
}

func loadConfig() (*config, error) {
	return parseConfig(os.Args[1:], flags.Default)
}

func parseConfig(args []string, options flags.Options) (*config, error) {
	cfg := &config{}

	parser := flags.NewParser(cfg, options)

	_, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	// Exactly one transport must be chosen.
	if cfg.Local == cfg.Udp {
		parser.WriteHelp(os.Stderr)
		return nil, errors.New("must specify either --local or --udp")
	}

	if cfg.Socket == "" {
		cfg.Socket = broker.DefaultSocketPath
	}

	if cfg.Port == 0 {
		cfg.Port = broker.DefaultPort
	}

	if cfg.SsidPrefix == "" {
		cfg.SsidPrefix = broker.DefaultSsidPrefix
	}

	return cfg, nil
}
