package topology

import (
	"errors"
	"fmt"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/util/naming"
)

// Slot is one expanded node identity before it is sized and addressed.
type Slot struct {
	Role     Role
	ID       int
	Hostname string
}

// Expand turns role counts into the ordered list of node slots. Roles are
// visited in the fixed order of Roles and every slot takes the next id from
// seq, so ids are unique and increase across roles.
func Expand(cfg *config.Config, seq *Sequence) ([]Slot, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if seq == nil {
		return nil, errors.New("sequence is required")
	}
	switch cfg.Expansion.WorkerCount {
	case config.WorkerCountLegacy, config.WorkerCountExact:
	default:
		return nil, fmt.Errorf("unknown worker count mode %q", cfg.Expansion.WorkerCount)
	}

	var slots []Slot
	for _, role := range Roles {
		spec := roleTable[role]
		for range spec.count(cfg) {
			id := seq.Next()
			slots = append(slots, Slot{
				Role:     role,
				ID:       id,
				Hostname: naming.Hostname(string(role), id),
			})
		}
	}
	return slots, nil
}
