package constants

// DemoBranchPrefix marks fabricated branch ids handed out when the hosted
// store has no branches (or is unreachable). A report captured against such a
// branch is routed to the local demo cache instead of the hosted store.
const DemoBranchPrefix = "suc-"

// DemoProfessionalPrefix marks fabricated professional ids on demo reports.
const DemoProfessionalPrefix = "demo-prof-"

// DemoCacheSlot is the single named slot the local cache persists under.
const DemoCacheSlot = "demo_reportes"

// FallbackBranch is one entry of the hardcoded branch list used when the
// hosted store cannot provide one.
type FallbackBranch struct {
	ID                string
	Name              string
	CommissionPercent float64
}

// FallbackBranches mirrors the chain's real locations. Used only for demo
// mode; canonical branches always come from the hosted store.
var FallbackBranches = []FallbackBranch{
	{ID: "suc-1", Name: "San Miguel", CommissionPercent: 2.0},
	{ID: "suc-2", Name: "Las Condes", CommissionPercent: 2.0},
	{ID: "suc-3", Name: "La Dehesa", CommissionPercent: 2.0},
	{ID: "suc-4", Name: "Antofagasta", CommissionPercent: 2.0},
	{ID: "suc-5", Name: "Hendaya", CommissionPercent: 2.5},
}
