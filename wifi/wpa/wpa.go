package wpa

import (
	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

const busName = "fi.w1.wpa_supplicant1"

// Wpa is a connection to the wpa_supplicant D-Bus service.
type Wpa struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

func New() *Wpa {
	return &Wpa{}
}

func (w *Wpa) Start() error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return errors.Errorf("could not connect to system bus: %v", err)
	}

	w.conn = conn
	w.obj = conn.Object(busName, "/fi/w1/wpa_supplicant1")

	return nil
}

func (w *Wpa) Stop() error {
	if w.conn == nil {
		return nil
	}

	err := w.conn.Close()
	if err != nil {
		return errors.Errorf("could not close bus connection: %v", err)
	}

	w.conn = nil

	return nil
}

// GetInterface looks up the managed interface with the given name. An empty
// name selects the first interface wpa_supplicant manages.
func (w *Wpa) GetInterface(name string) (*Interface, error) {
	if name == "" {
		return w.firstInterface()
	}

	call := w.obj.Call("fi.w1.wpa_supplicant1.GetInterface", 0, name)
	if call.Err != nil {
		return nil, errors.Errorf("could not get interface %v: %v", name, call.Err)
	}

	var objPath dbus.ObjectPath
	err := call.Store(&objPath)
	if err != nil {
		return nil, errors.Errorf("could not store value: %v", err)
	}

	return &Interface{
		wpa: w,
		obj: w.conn.Object(busName, objPath),
	}, nil
}

func (w *Wpa) firstInterface() (*Interface, error) {
	v, err := w.obj.GetProperty("fi.w1.wpa_supplicant1.Interfaces")
	if err != nil {
		return nil, errors.Errorf("could not get interfaces: %v", err)
	}

	objectPaths, ok := v.Value().([]dbus.ObjectPath)
	if !ok {
		return nil, errors.Errorf("could not convert result: %v", v)
	}

	if len(objectPaths) == 0 {
		return nil, errors.New("wpa_supplicant manages no interfaces")
	}

	return &Interface{
		wpa: w,
		obj: w.conn.Object(busName, objectPaths[0]),
	}, nil
}
