package domain

import (
	"fmt"
	"math"
)

// Book moves an Available device of p into campaign c under location and
// appends a zeroed performance row. Nothing is mutated unless every check
// passes.
func Book(p *Provider, deviceID uint32, c *Campaign, location Principal) error {
	d, err := p.Device(deviceID)
	if err != nil {
		return err
	}
	if d.State != DeviceAvailable {
		return fmt.Errorf("%w: device %d is %s", ErrDeviceNotAvailable, deviceID, d.State)
	}
	if c.Providers.Free() == 0 || c.Locations.Free() == 0 || c.Performance.Free() == 0 {
		return fmt.Errorf("%w: campaign %s has %d bookings", ErrCapacityExceeded, c.Key, c.Performance.Len())
	}
	if p.AvailableDevices == 0 || p.TotalCampaigns == math.MaxUint32 {
		return fmt.Errorf("%w: provider %s counters", ErrCalculation, p.Principal)
	}

	d.State = DeviceBooked
	// Capacity was checked above; these appends cannot fail.
	_ = c.Providers.Append(p.Principal)
	_ = c.Locations.Append(location)
	_ = c.Performance.Append(ProviderPerformance{Provider: p.Principal, DeviceID: deviceID})
	p.AvailableDevices--
	p.TotalCampaigns++
	return nil
}

// Unbook returns a Booked device of p to Available and strips the campaign's
// entries for p and location.
//
// Entries are matched by value: every provider entry equal to p, every
// location entry equal to location and every performance row owned by p is
// removed, whatever device it was booked with. A provider with two devices in
// the same campaign loses both rows while only deviceID is released.
func Unbook(p *Provider, deviceID uint32, c *Campaign, location Principal) error {
	d, err := p.Device(deviceID)
	if err != nil {
		return err
	}
	if d.State != DeviceBooked {
		return fmt.Errorf("%w: device %d is %s", ErrDeviceNotBooked, deviceID, d.State)
	}
	if p.AvailableDevices == math.MaxUint32 {
		return fmt.Errorf("%w: provider %s counters", ErrCalculation, p.Principal)
	}

	d.State = DeviceAvailable
	c.Providers.Retain(func(v Principal) bool { return v != p.Principal })
	c.Locations.Retain(func(v Principal) bool { return v != location })
	c.Performance.Retain(func(row ProviderPerformance) bool { return row.Provider != p.Principal })
	p.AvailableDevices++
	return nil
}
