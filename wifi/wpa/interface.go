package wpa

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

type Interface struct {
	wpa *Wpa
	obj dbus.BusObject
}

func (i *Interface) Scan() error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.Scan", 0, map[string]interface{}{
		"Type": "active",
	})
	if call.Err != nil {
		return errors.Errorf("could not scan: %v", call.Err)
	}

	return nil
}

type ScanDoneClient struct {
	ScanDone <-chan bool
	Cancel   func()
}

func (i *Interface) ScanDone() (*ScanDoneClient, error) {
	changeChan := make(chan bool, 1)
	signalChan := make(chan *dbus.Signal, 10)

	client := &ScanDoneClient{
		ScanDone: changeChan,
		Cancel: func() {
			i.wpa.conn.RemoveSignal(signalChan)

			_ = i.wpa.conn.BusObject().RemoveMatchSignal("fi.w1.wpa_supplicant1.Interface", "ScanDone", dbus.WithMatchObjectPath(i.obj.Path()))

			close(signalChan)
		},
	}

	go func() {
		i.wpa.conn.Signal(signalChan)

		for signal := range signalChan {
			if signal.Name == "fi.w1.wpa_supplicant1.Interface.ScanDone" && signal.Path == i.obj.Path() {
				select {
				case changeChan <- signal.Body[0].(bool):
				default:
				}
			}
		}
	}()

	call := i.wpa.conn.BusObject().AddMatchSignal("fi.w1.wpa_supplicant1.Interface", "ScanDone", dbus.WithMatchObjectPath(i.obj.Path()))
	if call.Err != nil {
		return nil, errors.Errorf("could not add signal: %v", call.Err)
	}

	return client, nil
}

func (i *Interface) BSSs() ([]*BSS, error) {
	v, err := i.obj.GetProperty("fi.w1.wpa_supplicant1.Interface.BSSs")
	if err != nil {
		return nil, errors.Errorf("could not get bsss: %v", err)
	}

	objectPaths, ok := v.Value().([]dbus.ObjectPath)
	if !ok {
		return nil, errors.Errorf("could not convert result: %v", err)
	}

	var bsss []*BSS

	for _, objectPath := range objectPaths {
		bsss = append(bsss, &BSS{
			obj: i.wpa.conn.Object(busName, objectPath),
		})
	}

	return bsss, nil
}

// AddNetwork registers a network configuration on the interface. An empty
// psk configures an open network. A non-empty bssid pins association to a
// specific access point.
func (i *Interface) AddNetwork(ssid string, psk string, bssid string) (*Network, error) {
	args := map[string]interface{}{
		"ssid": ssid,
	}

	if psk != "" {
		args["psk"] = psk
	} else {
		args["key_mgmt"] = "NONE"
	}

	if bssid != "" {
		args["bssid"] = bssid
	}

	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.AddNetwork", 0, args)
	if call.Err != nil {
		return nil, errors.Errorf("could not call: %v", call.Err)
	}

	var objPath dbus.ObjectPath
	err := call.Store(&objPath)
	if err != nil {
		return nil, errors.Errorf("could not store value: %v", err)
	}

	netObj := i.wpa.conn.Object(busName, objPath)

	return &Network{
		wpa: i.wpa,
		obj: netObj,
	}, nil
}

// SelectNetwork makes the given network the only enabled one and triggers
// association with it.
func (i *Interface) SelectNetwork(net *Network) error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.SelectNetwork", 0, net.obj.Path())
	if call.Err != nil {
		return errors.Errorf("could not select network: %v", call.Err)
	}

	return nil
}

func (i *Interface) Disconnect() error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.Disconnect", 0)
	if call.Err != nil {
		return errors.Errorf("could not disconnect: %v", call.Err)
	}

	return nil
}

func (i *Interface) RemoveAllNetworks() error {
	call := i.obj.Call("fi.w1.wpa_supplicant1.Interface.RemoveAllNetworks", 0)
	if call.Err != nil {
		return errors.Errorf("could not remove all networks: %v", call.Err)
	}

	return nil
}

// State returns the supplicant state string of the interface, for example
// "completed" when a link is fully established.
func (i *Interface) State() (string, error) {
	v, err := i.obj.GetProperty("fi.w1.wpa_supplicant1.Interface.State")
	if err != nil {
		return "", errors.Errorf("could not get state: %v", err)
	}

	state, ok := v.Value().(string)
	if !ok {
		return "", errors.Errorf("could not convert state: %v", v)
	}

	return state, nil
}

// Ifname returns the OS-level name of the interface.
func (i *Interface) Ifname() (string, error) {
	v, err := i.obj.GetProperty("fi.w1.wpa_supplicant1.Interface.Ifname")
	if err != nil {
		return "", errors.Errorf("could not get ifname: %v", err)
	}

	name, ok := v.Value().(string)
	if !ok {
		return "", errors.Errorf("could not convert ifname: %v", v)
	}

	return name, nil
}

func (i *Interface) String() string {
	return fmt.Sprintf("%v", i.obj.Path())
}
