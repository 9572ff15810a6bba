package domain

import "errors"

// Capacity.
var (
	ErrRegistryFull     = errors.New("registry is full")
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// Not found.
var (
	ErrDeviceNotFound         = errors.New("device not found")
	ErrProviderNotInCampaign  = errors.New("provider not in campaign")
	ErrProviderNotFound       = errors.New("provider not found")
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrFeedNotFound           = errors.New("device feed not found")
	ErrRegistryNotInitialized = errors.New("provider registry not initialized")
)

// Duplicates.
var (
	ErrRegistryExists = errors.New("provider registry already initialized")
	ErrProviderExists = errors.New("provider already registered")
	ErrCampaignExists = errors.New("campaign already exists")
	ErrFeedExists     = errors.New("device feed already exists")
)

// Illegal state transitions.
var (
	ErrDeviceNotAvailable   = errors.New("device not available")
	ErrDeviceNotBooked      = errors.New("device not booked")
	ErrCampaignNotActive    = errors.New("campaign not active")
	ErrCampaignNotPaused    = errors.New("campaign not paused")
	ErrCampaignNotCompleted = errors.New("campaign not completed")
	ErrIllegalStateChange   = errors.New("illegal state change")
	ErrAlreadyDistributed   = errors.New("fees already distributed")
	ErrAlreadyWithdrawn     = errors.New("earnings already withdrawn")
)

// Arithmetic.
var (
	ErrCalculation        = errors.New("calculation error")
	ErrInsufficientBudget = errors.New("insufficient budget")
	ErrInsufficientFunds  = errors.New("insufficient funds")
)

// Economic preconditions.
var (
	ErrNoViews              = errors.New("no views recorded")
	ErrNoEarningsToWithdraw = errors.New("no earnings to withdraw")
	ErrNoNewData            = errors.New("nothing new to record")
)

// Authorization and input.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadAuthority = errors.New("caller is not the feed authority")
	ErrInvalidInput = errors.New("invalid input")
)
