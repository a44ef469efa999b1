package wifi

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/nyathea/vanilla-OSX/wifi/wpa"
)

const (
	scanTimeout      = 10 * time.Second
	associateTimeout = 15 * time.Second
	statePollEvery   = 500 * time.Millisecond
)

// check WpaProvider compliance to its interface during compile time
var _ Provider = (*WpaProvider)(nil)

type WpaConfig struct {
	// Interface is the wireless interface to manage. Empty selects the first
	// interface wpa_supplicant manages.
	Interface string
	Logger    Logger
}

// WpaProvider drives a wireless interface through wpa_supplicant's D-Bus
// service. Not safe for concurrent use.
type WpaProvider struct {
	log    Logger
	ifname string
	wpa    *wpa.Wpa
	iface  *wpa.Interface
}

func NewWpaProvider(config *WpaConfig) *WpaProvider {
	provider := &WpaProvider{
		ifname: config.Interface,
		wpa:    wpa.New(),
	}

	if config.Logger != nil {
		provider.log = config.Logger
	} else {
		provider.log = noopLogger{}
	}

	return provider
}

func (p *WpaProvider) Start() error {
	err := p.wpa.Start()
	if err != nil {
		return errors.Errorf("could not start wpa: %v", err)
	}

	iface, err := p.wpa.GetInterface(p.ifname)
	if err != nil {
		_ = p.wpa.Stop()
		return errors.Errorf("could not find interface %v: %v", p.ifname, err)
	}

	p.iface = iface

	if p.ifname == "" {
		name, err := iface.Ifname()
		if err != nil {
			_ = p.wpa.Stop()
			return errors.Errorf("could not resolve default interface name: %v", err)
		}

		p.ifname = name
	}

	p.log.Infof("Managing wireless interface %v", p.ifname)

	return nil
}

func (p *WpaProvider) ScanForTarget(prefix string) (*Network, error) {
	doneClient, err := p.iface.ScanDone()
	if err != nil {
		return nil, errors.Errorf("unable to listen to scan completion: %v", err)
	}

	defer doneClient.Cancel()

	err = p.iface.Scan()
	if err != nil {
		return nil, errors.Errorf("unable to scan: %v", err)
	}

	select {
	case <-doneClient.ScanDone:
	case <-time.After(scanTimeout):
		p.log.Warnf("Scan did not complete within %v, matching against cached results", scanTimeout)
	}

	bsss, err := p.iface.BSSs()
	if err != nil {
		return nil, errors.Errorf("unable to get BSSs: %v", err)
	}

	for _, bss := range bsss {
		b, err := bss.GetAll()
		if err != nil {
			p.log.Debugf("Skipping unreadable BSS %v: %v", bss, err)
			continue
		}

		if strings.HasPrefix(b.Ssid, prefix) {
			return &Network{
				Ssid:  b.Ssid,
				Bssid: b.Bssid,
			}, nil
		}
	}

	return nil, ErrNotFound
}

func (p *WpaProvider) Associate(ssid string, bssid []byte, psk []byte) error {
	// Drop any stale configuration before adding the target network, so
	// SelectNetwork races against nothing.
	err := p.iface.RemoveAllNetworks()
	if err != nil {
		return errors.Errorf("could not clear networks: %v", err)
	}

	network, err := p.iface.AddNetwork(ssid, string(psk), formatBssid(bssid))
	if err != nil {
		return errors.Errorf("could not add network: %v", err)
	}

	err = p.iface.SelectNetwork(network)
	if err != nil {
		return errors.Errorf("could not select network: %v", err)
	}

	deadline := time.Now().Add(associateTimeout)

	for {
		state, err := p.iface.State()
		if err != nil {
			return errors.Errorf("could not query state: %v", err)
		}

		if state == "completed" {
			return nil
		}

		if time.Now().After(deadline) {
			return errors.Errorf("association with %v did not complete within %v, last state %v", ssid, associateTimeout, state)
		}

		time.Sleep(statePollEvery)
	}
}

func (p *WpaProvider) Disassociate() error {
	err := p.iface.Disconnect()
	if err != nil {
		// Disconnecting while not associated is fine.
		p.log.Debugf("Disconnect reported: %v", err)
	}

	err = p.iface.RemoveAllNetworks()
	if err != nil {
		return errors.Errorf("could not remove networks: %v", err)
	}

	return nil
}

func (p *WpaProvider) Connected() bool {
	state, err := p.iface.State()
	if err != nil {
		p.log.Warnf("Could not query state: %v", err)
		return false
	}

	return state == "completed"
}

func (p *WpaProvider) IPAddress() (string, error) {
	iface, err := net.InterfaceByName(p.ifname)
	if err != nil {
		return "", errors.Errorf("could not find interface %v: %v", p.ifname, err)
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return "", errors.Errorf("could not get addresses of %v: %v", p.ifname, err)
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}

		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}

	return "", errors.Errorf("interface %v has no IPv4 address", p.ifname)
}

func (p *WpaProvider) Stop() {
	err := p.wpa.Stop()
	if err != nil {
		p.log.Errorf("Could not stop wpa: %v", err)
	}
}

func formatBssid(bssid []byte) string {
	if len(bssid) == 0 {
		return ""
	}

	parts := make([]string, len(bssid))
	for i, b := range bssid {
		parts[i] = fmt.Sprintf("%02x", b)
	}

	return strings.Join(parts, ":")
}
