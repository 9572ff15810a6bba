package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/fee"
	"soulboard/internal/core/port"
)

// DistributeFees computes and records every row's earnings. Without the
// repeated payout guard it may run again and yields the same result.
func (u *MarketplaceUseCase) DistributeFees(ctx context.Context, caller domain.Principal, key domain.CampaignKey) (fee.Summary, error) {
	var summary fee.Summary
	_, err := u.mutateCampaign(ctx, "distribute fees", caller, key, func(_ context.Context, _ port.Tx, c *domain.Campaign, out *outbox) error {
		if u.guard && c.Distributed {
			return fmt.Errorf("%w: campaign %s", domain.ErrAlreadyDistributed, key)
		}
		s, err := fee.Distribute(c)
		if err != nil {
			return err
		}
		if u.guard {
			c.Distributed = true
		}
		summary = s
		out.add(domain.EventFeesCalculated, domain.FeesCalculated{Campaign: key, TotalDistributed: s.TotalDistributed})
		return nil
	})
	if err != nil {
		return fee.Summary{}, err
	}
	u.logger.Info("fees distributed",
		slog.String("campaign", key.String()),
		slog.Uint64("total_distributed", summary.TotalDistributed),
		slog.Int("payouts", len(summary.Payouts)))
	return summary, nil
}

// Withdraw pays the calculated earnings of caller's first performance row
// from the campaign's escrow into caller's account. Without the repeated
// payout guard a second call pays the same amount again while escrow lasts.
func (u *MarketplaceUseCase) Withdraw(ctx context.Context, caller domain.Principal, key domain.CampaignKey) (uint64, error) {
	if !caller.Valid() {
		return 0, fmt.Errorf("withdraw: %w: missing caller", domain.ErrUnauthorized)
	}
	var amount uint64
	err := u.run(ctx, "withdraw", func(ctx context.Context, tx port.Tx, out *outbox) error {
		c, err := tx.GetCampaign(ctx, key)
		if err != nil {
			return err
		}
		row, err := c.PerformanceForProvider(caller)
		if err != nil {
			return err
		}
		if row.CalculatedEarnings == 0 {
			return fmt.Errorf("%w: %s in campaign %s", domain.ErrNoEarningsToWithdraw, caller, key)
		}
		if u.guard && row.Withdrawn {
			return fmt.Errorf("%w: %s in campaign %s", domain.ErrAlreadyWithdrawn, caller, key)
		}
		p, err := tx.GetProvider(ctx, caller)
		if err != nil {
			return err
		}
		amount = row.CalculatedEarnings
		if err = p.CreditEarnings(amount); err != nil {
			return err
		}
		if err = tx.Transfer(ctx, key.EscrowAccount(), domain.AccountOf(caller), amount); err != nil {
			return err
		}
		if err = tx.UpdateProvider(ctx, p); err != nil {
			return err
		}
		if u.guard {
			row.Withdrawn = true
			if err = tx.UpdateCampaign(ctx, c); err != nil {
				return err
			}
		}
		out.add(domain.EventEarningsWithdrawn, domain.EarningsWithdrawn{Provider: caller, Campaign: key, Amount: amount})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}
