package entity

// Professional is a service provider whose monthly sales are reported.
// Unique per (name, branch) in the hosted store.
type Professional struct {
	ID       string  `json:"id"`
	Name     string  `json:"nombre"`
	BranchID string  `json:"sucursal_id,omitempty"`
	Branch   *Branch `json:"sucursal,omitempty"`
}
