package configs

// Settlement holds marketplace policy knobs.
type Settlement struct {
	// Operator is the principal allowed to initialize the provider
	// directory and issue units into accounts.
	Operator string `env:"OPERATOR" envDefault:"operator"`
	// GuardRepeatedPayouts rejects a second fee distribution of the same
	// campaign and a second withdrawal by the same provider. When false
	// both operations can be repeated.
	GuardRepeatedPayouts bool `env:"GUARD_REPEATED_PAYOUTS" envDefault:"false"`
	// SeedDemo populates an empty ledger with demo providers and a
	// campaign on startup.
	SeedDemo bool `env:"SEED_DEMO" envDefault:"false"`
}
