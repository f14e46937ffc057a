package entity

// Activatable is a trait for reference records that are deactivated instead of deleted.
type Activatable struct {
	Active bool `db:"active" json:"active"`
}

// Deactivate clears the active flag.
func (a *Activatable) Deactivate() {
	a.Active = false
}

// Activate sets the active flag.
func (a *Activatable) Activate() {
	a.Active = true
}

// IsActive reports whether the record can be referenced by new documents.
func (a *Activatable) IsActive() bool {
	return a.Active
}

// DeletePolicy names what happens to a relationship when its target is deleted.
type DeletePolicy string

const (
	// DeleteCascade removes owned children with the parent.
	DeleteCascade DeletePolicy = "cascade"
	// DeleteProtect rejects deletion while references exist.
	DeleteProtect DeletePolicy = "protect"
	// DeleteDeactivate turns deletion into clearing the active flag.
	DeleteDeactivate DeletePolicy = "deactivate"
)
