package domain

import (
	"fmt"
	"strings"
)

// Principal identifies a party allowed to act on an entity. Transport layers
// authenticate it; the core only compares it against recorded authorities.
type Principal string

// SelfPrincipal is the path alias a provider uses for its own record, so no
// provider may register under it.
const SelfPrincipal Principal = "me"

func (p Principal) String() string { return string(p) }

// Valid reports whether the principal is non-empty.
func (p Principal) Valid() bool { return strings.TrimSpace(string(p)) != "" }

// Account names a ledger balance. Principals own one account each and every
// campaign escrows its budget in its own account.
type Account string

// AccountOf returns the spendable account of a principal.
func AccountOf(p Principal) Account { return Account(p) }

// CampaignKey is the composite identity of a campaign.
type CampaignKey struct {
	Advertiser Principal `json:"advertiser"`
	CampaignID uint32    `json:"campaign_id"`
}

func (k CampaignKey) String() string {
	return fmt.Sprintf("%s/%d", k.Advertiser, k.CampaignID)
}

// EscrowAccount returns the account holding the campaign's funds.
func (k CampaignKey) EscrowAccount() Account {
	return Account("campaign:" + k.String())
}

// Authorize fails with ErrUnauthorized unless caller is the recorded authority.
func Authorize(caller, authority Principal) error {
	if !caller.Valid() || caller != authority {
		return fmt.Errorf("%w: caller %q is not %q", ErrUnauthorized, caller, authority)
	}
	return nil
}
