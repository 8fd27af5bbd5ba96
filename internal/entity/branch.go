package entity

import (
	"strings"

	"github.com/sculptbody/cierre-backend/constants"
)

// Branch is an organizational location with its own commission rate. The
// reference set is small and mostly static; canonical rows live in the
// sucursales table.
type Branch struct {
	ID                string  `json:"id"`
	Name              string  `json:"nombre"`
	CommissionPercent float64 `json:"comision_porcentaje"`
}

// IsDemo reports whether the branch id was fabricated locally rather than
// assigned by the hosted store.
func (b Branch) IsDemo() bool {
	return strings.HasPrefix(b.ID, constants.DemoBranchPrefix)
}

// FallbackBranches returns the hardcoded branch list used when the hosted
// store is unreachable or empty.
func FallbackBranches() []Branch {
	out := make([]Branch, 0, len(constants.FallbackBranches))
	for _, fb := range constants.FallbackBranches {
		out = append(out, Branch{ID: fb.ID, Name: fb.Name, CommissionPercent: fb.CommissionPercent})
	}
	return out
}
