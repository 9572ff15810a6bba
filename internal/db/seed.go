package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
)

// SeedResult lists what Seed created.
type SeedResult struct {
	Providers []domain.Principal
	Devices   map[domain.Principal][]uint32
	Campaign  domain.CampaignKey
}

// Seed populates the marketplace with demo data through the use case: the
// registry, five providers with two to four devices each, a funded advertiser
// and one campaign booking the first device of every provider. It is a no-op
// when the registry already exists.
func Seed(ctx context.Context, svc port.MarketplaceUseCase, operator domain.Principal, logger *slog.Logger) (*SeedResult, error) {
	err := svc.InitializeRegistry(ctx, operator)
	if errors.Is(err, domain.ErrRegistryExists) {
		logger.Info("seed skipped, registry exists")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	res := &SeedResult{Devices: map[domain.Principal][]uint32{}}
	nextDevice := uint32(r.Intn(1000)+1) * 100

	for i := 1; i <= 5; i++ {
		principal := domain.Principal(uuid.NewString())
		_, err = svc.RegisterProvider(ctx, principal, port.RegisterProviderInput{
			Name:     fmt.Sprintf("Provider %d", i),
			Location: []string{"Yerevan Mall", "Dalma Garden", "Northern Avenue", "Republic Square"}[r.Intn(4)],
			Contact:  fmt.Sprintf("provider%d@example.com", i),
		})
		if err != nil {
			return nil, err
		}
		res.Providers = append(res.Providers, principal)

		for range 2 + r.Intn(3) {
			nextDevice++
			if _, err = svc.AcquireDevice(ctx, principal, nextDevice); err != nil {
				return nil, err
			}
			if _, err = svc.InitializeFeed(ctx, principal, nextDevice); err != nil {
				return nil, err
			}
			res.Devices[principal] = append(res.Devices[principal], nextDevice)
		}
	}

	advertiser := domain.Principal(uuid.NewString())
	budget := uint64(1_000_000)
	if _, err = svc.Credit(ctx, operator, domain.AccountOf(advertiser), budget); err != nil {
		return nil, err
	}
	c, err := svc.CreateCampaign(ctx, advertiser, port.CreateCampaignInput{
		CampaignID:     1,
		Name:           "Demo campaign",
		Description:    "Seeded on startup",
		RunningDays:    7,
		HoursPerDay:    12,
		BaseFeePerHour: 50,
	})
	if err != nil {
		return nil, err
	}
	res.Campaign = c.Key
	if _, err = svc.FundCampaign(ctx, advertiser, c.Key, budget); err != nil {
		return nil, err
	}
	for _, p := range res.Providers {
		if _, err = svc.AddLocation(ctx, advertiser, c.Key, p, res.Devices[p][0]); err != nil {
			return nil, err
		}
	}

	logger.Info("demo data seeded",
		slog.Int("providers", len(res.Providers)),
		slog.String("campaign", c.Key.String()))
	return res, nil
}
