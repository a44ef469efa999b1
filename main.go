package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/nyathea/vanilla-OSX/broker"
	"github.com/nyathea/vanilla-OSX/wifi"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	// Commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	Commit string
	// Version stores the version string of this build. This should be set using -ldflags during compilation.
	Version string
	// Date stores the date of this build. This should be set using -ldflags during compilation.
	Date string
)

// pipeMain is the true entry point for vanilla-pipe. This is required since
// defers created in the top-level scope of a main method aren't executed if
// os.Exit() is called.
func pipeMain() error {
	// All narration goes to the diagnostic stream; the data channel is the
	// command socket.
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)

	// Load CLI configuration and defaults
	cfg, err := loadConfig()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		return nil
	} else if err != nil {
		return errors.Errorf("Failed parsing arguments: %v", err)
	}

	// Set logger into debug mode if called with --debug
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		log.Info("Setting debug mode.")
	}

	log.Debug("Loaded config.")

	// Print version of the daemon
	log.Infof("Version %s (commit %s)", Version, Commit)
	log.Infof("Built on %s", Date)

	// Stop here if only version was requested
	if cfg.ShowVersion {
		return nil
	}

	if os.Geteuid() != 0 {
		// Don't exit. Some platforms allow Wi-Fi control without root.
		log.Warn("Running without root privileges. Wi-Fi control may require them.")
	}

	// The Wi-Fi capability provider, which performs all platform-level
	// wireless operations on behalf of the broker
	var provider wifi.Provider

	switch cfg.Wifi {
	case "wpa":
		provider = wifi.NewWpaProvider(&wifi.WpaConfig{
			Interface: cfg.Args.Interface,
			Logger:    log.New().WithField("system", "wifi"),
		})

		log.Info("Created wpa_supplicant Wi-Fi provider.")
	case "mock":
		provider = wifi.NewMockProvider()

		log.Info("Created a mock Wi-Fi provider.")
	default:
		return errors.Errorf("Unknown Wi-Fi provider type %v", cfg.Wifi)
	}

	log.Info("Initializing Wi-Fi interface...")

	err = provider.Start()
	if err != nil {
		return errors.Errorf("Failed to initialize Wi-Fi: %v", err)
	}

	defer func() {
		provider.Stop()
		log.Info("Released Wi-Fi interface.")
	}()

	var conn net.PacketConn

	if cfg.Local {
		conn, err = broker.ListenLocal(cfg.Socket)
	} else {
		conn, err = broker.ListenUDP(cfg.Port)
	}
	if err != nil {
		return errors.Errorf("Failed to bind command socket: %v", err)
	}

	log.Infof("Listening on %v", conn.LocalAddr())

	b := broker.New(&broker.Config{
		Conn:       conn,
		Provider:   provider,
		SsidPrefix: cfg.SsidPrefix,
		Logger:     log.New().WithField("system", "broker"),
	})

	log.Info("Created broker.")

	// Handle interrupt signals correctly
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		sig := <-signals
		log.Info(sig)
		log.Info("Received a signal, stopping broker...")
		b.Shutdown()
	}()

	// Readiness marker for the supervising parent process
	fmt.Fprintln(os.Stderr, "READY")

	log.Info("Ready and listening...")

	// blocks until the broker is shut down
	err = b.Run()
	if err != nil {
		return errors.Errorf("Failed running broker: %v", err)
	}

	// finish with no error
	return nil
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := pipeMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		} else {
			log.WithError(err).Println("Failed running vanilla-pipe.")
		}
		os.Exit(1)
	}
}
