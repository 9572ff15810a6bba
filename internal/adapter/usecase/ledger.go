package usecase

import (
	"context"
	"fmt"

	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
)

// Credit issues amount into account and returns the new balance.
func (u *MarketplaceUseCase) Credit(ctx context.Context, caller domain.Principal, account domain.Account, amount uint64) (uint64, error) {
	if err := u.requireOperator(caller); err != nil {
		return 0, fmt.Errorf("credit: %w", err)
	}
	if account == "" || amount == 0 {
		return 0, fmt.Errorf("credit: %w: account and amount are required", domain.ErrInvalidInput)
	}
	var balance uint64
	err := u.run(ctx, "credit", func(ctx context.Context, tx port.Tx, out *outbox) error {
		if err := tx.Credit(ctx, account, amount); err != nil {
			return err
		}
		b, err := tx.Balance(ctx, account)
		if err != nil {
			return err
		}
		balance = b
		out.add(domain.EventAccountCredited, domain.AccountCredited{Account: account, Amount: amount})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (u *MarketplaceUseCase) Balance(ctx context.Context, account domain.Account) (uint64, error) {
	var balance uint64
	err := u.view(ctx, "balance", func(ctx context.Context, tx port.Tx) (err error) {
		balance, err = tx.Balance(ctx, account)
		return err
	})
	return balance, err
}
