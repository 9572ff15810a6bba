package usecase

import (
	"context"
	"fmt"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
)

func (u *MarketplaceUseCase) InitializeRegistry(ctx context.Context, caller domain.Principal) error {
	if err := u.requireOperator(caller); err != nil {
		return fmt.Errorf("initialize registry: %w", err)
	}
	return u.run(ctx, "initialize registry", func(ctx context.Context, tx port.Tx, out *outbox) error {
		if err := tx.InsertRegistry(ctx, &domain.Registry{}); err != nil {
			return err
		}
		out.add(domain.EventRegistryInitialized, domain.RegistryInitialized{Operator: caller})
		return nil
	})
}

// RegisterProvider appends caller to the directory and creates its provider
// record. A principal registers at most once.
func (u *MarketplaceUseCase) RegisterProvider(ctx context.Context, caller domain.Principal, in port.RegisterProviderInput) (*domain.Provider, error) {
	if !caller.Valid() {
		return nil, fmt.Errorf("register provider: %w: missing caller", domain.ErrUnauthorized)
	}
	p, err := domain.NewProvider(caller, in.Name, in.Location, in.Contact)
	if err != nil {
		return nil, fmt.Errorf("register provider: %w", err)
	}
	err = u.run(ctx, "register provider", func(ctx context.Context, tx port.Tx, out *outbox) error {
		reg, err := tx.GetRegistry(ctx)
		if err != nil {
			return err
		}
		if reg.Contains(caller) {
			return fmt.Errorf("%w: %s", domain.ErrProviderExists, caller)
		}
		if err = reg.Register(caller); err != nil {
			return err
		}
		if err = tx.InsertProvider(ctx, p); err != nil {
			return err
		}
		if err = tx.UpdateRegistry(ctx, reg); err != nil {
			return err
		}
		out.add(domain.EventProviderRegistered, domain.ProviderRegistered{
			Principal: p.Principal,
			Name:      p.Name,
			Location:  p.Location,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProvider emits no notification.
func (u *MarketplaceUseCase) UpdateProvider(ctx context.Context, caller domain.Principal, in domain.ProviderUpdate) (*domain.Provider, error) {
	var updated *domain.Provider
	err := u.run(ctx, "update provider", func(ctx context.Context, tx port.Tx, _ *outbox) error {
		p, err := u.ownProvider(ctx, tx, caller)
		if err != nil {
			return err
		}
		if err = p.Apply(in); err != nil {
			return err
		}
		if err = tx.UpdateProvider(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u *MarketplaceUseCase) ListProviders(ctx context.Context) ([]domain.ProviderMetadata, error) {
	var list []domain.ProviderMetadata
	err := u.view(ctx, "list providers", func(ctx context.Context, tx port.Tx) error {
		reg, err := tx.GetRegistry(ctx)
		if err != nil {
			return err
		}
		list = make([]domain.ProviderMetadata, 0, reg.Providers.Len())
		for _, principal := range reg.Providers.All() {
			p, err := tx.GetProvider(ctx, principal)
			if err != nil {
				return err
			}
			list = append(list, p.Metadata())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (u *MarketplaceUseCase) GetProvider(ctx context.Context, principal domain.Principal) (*domain.Provider, error) {
	var p *domain.Provider
	err := u.view(ctx, "get provider", func(ctx context.Context, tx port.Tx) (err error) {
		p, err = tx.GetProvider(ctx, principal)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (u *MarketplaceUseCase) AcquireDevice(ctx context.Context, caller domain.Principal, deviceID uint32) (domain.Device, error) {
	var dev domain.Device
	err := u.run(ctx, "acquire device", func(ctx context.Context, tx port.Tx, out *outbox) error {
		p, err := u.ownProvider(ctx, tx, caller)
		if err != nil {
			return err
		}
		if dev, err = p.AcquireDevice(deviceID); err != nil {
			return err
		}
		if err = tx.UpdateProvider(ctx, p); err != nil {
			return err
		}
		out.add(domain.EventDeviceOrdered, domain.DeviceOrderedEvent{Provider: p.Principal, DeviceID: dev.DeviceID, State: dev.State})
		out.add(domain.EventProviderMetadataUpdated, domain.ProviderMetadataUpdated{Provider: p.Principal, AvailableDevices: p.AvailableDevices})
		return nil
	})
	if err != nil {
		return domain.Device{}, err
	}
	return dev, nil
}

func (u *MarketplaceUseCase) SetDeviceState(ctx context.Context, caller domain.Principal, deviceID uint32, state domain.DeviceState) error {
	return u.run(ctx, "set device state", func(ctx context.Context, tx port.Tx, out *outbox) error {
		p, err := u.ownProvider(ctx, tx, caller)
		if err != nil {
			return err
		}
		before := p.AvailableDevices
		if err = p.SetDeviceState(deviceID, state); err != nil {
			return err
		}
		if err = tx.UpdateProvider(ctx, p); err != nil {
			return err
		}
		out.add(domain.EventDeviceStateChanged, domain.DeviceStateChanged{Provider: p.Principal, DeviceID: deviceID, State: state})
		if p.AvailableDevices != before {
			out.add(domain.EventProviderMetadataUpdated, domain.ProviderMetadataUpdated{Provider: p.Principal, AvailableDevices: p.AvailableDevices})
		}
		return nil
	})
}

// ownProvider loads the provider record owned by caller.
func (u *MarketplaceUseCase) ownProvider(ctx context.Context, tx port.Tx, caller domain.Principal) (*domain.Provider, error) {
	if !caller.Valid() {
		return nil, fmt.Errorf("%w: missing caller", domain.ErrUnauthorized)
	}
	p, err := tx.GetProvider(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err = domain.Authorize(caller, p.Principal); err != nil {
		return nil, err
	}
	return p, nil
}
