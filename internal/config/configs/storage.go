package configs

import (
	"fmt"
	"strings"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Storage selects the ledger backend. The memory driver keeps all state in
// process and is lost on restart.
type Storage struct {
	Driver string `env:"DRIVER" envDefault:"postgres"`
}

// Normalized returns the lower-cased driver name or an error for unknown
// drivers.
func (c Storage) Normalized() (string, error) {
	d := strings.ToLower(strings.TrimSpace(c.Driver))
	switch d {
	case StoragePostgres, StorageMemory:
		return d, nil
	default:
		return "", fmt.Errorf("unknown storage driver %q", c.Driver)
	}
}
