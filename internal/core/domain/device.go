package domain

import (
	"fmt"
	"strings"
)

// DeviceState is the allocation state of a soulboard.
type DeviceState uint8

const (
	DeviceAvailable DeviceState = iota
	DeviceBooked
	DeviceOrdered
	DevicePaused
)

var deviceStateNames = [...]string{"available", "booked", "ordered", "paused"}

func (s DeviceState) String() string {
	if int(s) < len(deviceStateNames) {
		return deviceStateNames[s]
	}
	return fmt.Sprintf("device_state(%d)", uint8(s))
}

// ParseDeviceState accepts the names produced by String.
func ParseDeviceState(s string) (DeviceState, error) {
	for i, name := range deviceStateNames {
		if strings.EqualFold(s, name) {
			return DeviceState(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown device state %q", ErrInvalidInput, s)
}

func (s DeviceState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *DeviceState) UnmarshalText(b []byte) error {
	v, err := ParseDeviceState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Device is a display unit owned by one provider. DeviceID is the telemetry
// channel id of the unit.
type Device struct {
	DeviceID uint32      `json:"device_id"`
	State    DeviceState `json:"state"`
}
