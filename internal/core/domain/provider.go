package domain

import (
	"fmt"
	"math"
)

// Provider offers soulboards for rent. Providers are never deleted, only
// deactivated.
type Provider struct {
	Principal        Principal  `json:"principal"`
	Devices          DeviceList `json:"devices"`
	Name             string     `json:"name"`
	Location         string     `json:"location"`
	Contact          string     `json:"contact"`
	Rating           uint8      `json:"rating"`
	TotalCampaigns   uint32     `json:"total_campaigns"`
	IsActive         bool       `json:"is_active"`
	TotalEarnings    uint64     `json:"total_earnings"`
	PendingPayments  uint64     `json:"pending_payments"`
	DeviceCount      uint32     `json:"device_count"`
	AvailableDevices uint32     `json:"available_devices"`
}

// ProviderMetadata is the lookup summary kept alongside the registry.
type ProviderMetadata struct {
	Principal        Principal `json:"principal"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	DeviceCount      uint32    `json:"device_count"`
	AvailableDevices uint32    `json:"available_devices"`
	Rating           uint8     `json:"rating"`
	IsActive         bool      `json:"is_active"`
}

// ProviderUpdate carries the optional fields of update_provider. Nil fields
// are left untouched.
type ProviderUpdate struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
	Contact  *string `json:"contact,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// NewProvider returns a freshly registered provider with default rating.
func NewProvider(principal Principal, name, location, contact string) (*Provider, error) {
	if !principal.Valid() {
		return nil, fmt.Errorf("%w: empty principal", ErrInvalidInput)
	}
	if principal == SelfPrincipal {
		return nil, fmt.Errorf("%w: principal %q is reserved", ErrInvalidInput, principal)
	}
	if err := validateProviderStrings(&name, &location, &contact); err != nil {
		return nil, err
	}
	return &Provider{
		Principal: principal,
		Name:      name,
		Location:  location,
		Contact:   contact,
		Rating:    DefaultProviderRating,
		IsActive:  true,
	}, nil
}

func validateProviderStrings(name, location, contact *string) error {
	if name != nil {
		if err := checkLength("name", *name, MaxNameLength); err != nil {
			return err
		}
	}
	if location != nil {
		if err := checkLength("location", *location, MaxLocationLength); err != nil {
			return err
		}
	}
	if contact != nil {
		if err := checkLength("contact", *contact, MaxContactLength); err != nil {
			return err
		}
	}
	return nil
}

func checkLength(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%w: %s longer than %d bytes", ErrInvalidInput, field, limit)
	}
	return nil
}

// Apply performs a partial update. Either every present field is applied or
// none is.
func (p *Provider) Apply(u ProviderUpdate) error {
	if err := validateProviderStrings(u.Name, u.Location, u.Contact); err != nil {
		return err
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.Contact != nil {
		p.Contact = *u.Contact
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
	return nil
}

// AcquireDevice appends a new Available device. Device ids are not checked
// for uniqueness; booking always resolves to the first match.
func (p *Provider) AcquireDevice(deviceID uint32) (Device, error) {
	if p.DeviceCount == math.MaxUint32 || p.AvailableDevices == math.MaxUint32 {
		return Device{}, ErrCalculation
	}
	d := Device{DeviceID: deviceID, State: DeviceAvailable}
	if err := p.Devices.Append(d); err != nil {
		return Device{}, fmt.Errorf("%w: provider %s holds %d devices", ErrCapacityExceeded, p.Principal, p.Devices.Len())
	}
	p.DeviceCount++
	p.AvailableDevices++
	return d, nil
}

// Device returns the first device with the given id.
func (p *Provider) Device(deviceID uint32) (*Device, error) {
	d, ok := p.Devices.Find(func(d Device) bool { return d.DeviceID == deviceID })
	if !ok {
		return nil, fmt.Errorf("%w: provider %s device %d", ErrDeviceNotFound, p.Principal, deviceID)
	}
	return d, nil
}

// SetDeviceState moves a device between the administrative states. Booked is
// owned by the booking cycle and can be neither entered nor left here.
func (p *Provider) SetDeviceState(deviceID uint32, to DeviceState) error {
	d, err := p.Device(deviceID)
	if err != nil {
		return err
	}
	if to > DevicePaused {
		return fmt.Errorf("%w: unknown state %d", ErrInvalidInput, to)
	}
	if d.State == DeviceBooked || to == DeviceBooked {
		return fmt.Errorf("%w: device %d %s -> %s", ErrIllegalStateChange, deviceID, d.State, to)
	}
	if d.State == to {
		return nil
	}
	switch {
	case d.State == DeviceAvailable:
		if p.AvailableDevices == 0 {
			return ErrCalculation
		}
		p.AvailableDevices--
	case to == DeviceAvailable:
		if p.AvailableDevices == math.MaxUint32 {
			return ErrCalculation
		}
		p.AvailableDevices++
	}
	d.State = to
	return nil
}

// CreditEarnings adds a withdrawn amount to the lifetime total.
func (p *Provider) CreditEarnings(amount uint64) error {
	if p.TotalEarnings > math.MaxUint64-amount {
		return fmt.Errorf("%w: total earnings overflow", ErrCalculation)
	}
	p.TotalEarnings += amount
	return nil
}

// Metadata returns the lookup summary.
func (p *Provider) Metadata() ProviderMetadata {
	return ProviderMetadata{
		Principal:        p.Principal,
		Name:             p.Name,
		Location:         p.Location,
		DeviceCount:      p.DeviceCount,
		AvailableDevices: p.AvailableDevices,
		Rating:           p.Rating,
		IsActive:         p.IsActive,
	}
}

// Clone returns a deep copy.
func (p *Provider) Clone() *Provider {
	c := *p
	c.Devices = p.Devices.Clone()
	return &c
}
