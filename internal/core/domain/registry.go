package domain

import "fmt"

// Registry is the process-wide provider directory. It exists only after an
// explicit initialization and is append-only.
type Registry struct {
	Providers      RegistryList `json:"providers"`
	TotalProviders uint32       `json:"total_providers"`
}

// Register appends principal or fails with ErrRegistryFull.
func (r *Registry) Register(principal Principal) error {
	if r.Providers.Free() == 0 {
		return fmt.Errorf("%w: %d providers registered", ErrRegistryFull, r.Providers.Len())
	}
	if err := r.Providers.Append(principal); err != nil {
		return fmt.Errorf("%w: %v", ErrRegistryFull, err)
	}
	r.TotalProviders++
	return nil
}

// Contains reports whether principal is registered.
func (r *Registry) Contains(principal Principal) bool {
	return r.Providers.Index(func(p Principal) bool { return p == principal }) >= 0
}

// Clone returns a deep copy.
func (r *Registry) Clone() *Registry {
	c := *r
	c.Providers = r.Providers.Clone()
	return &c
}
