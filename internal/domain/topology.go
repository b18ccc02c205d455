package domain

// Topology describes one side of a loop: an inlet branch, the parallel
// branches between the splitter and the mixer, and an outlet branch.
// On the demand side of an air loop Branches holds zone names.
type Topology struct {
	Inlet    string   `json:"inlet" yaml:"inlet" validate:"required"`
	Branches []string `json:"branches" yaml:"branches" validate:"required,min=1,unique,dive,required"`
	Outlet   string   `json:"outlet" yaml:"outlet" validate:"required"`
}

// NewTopology builds a topology from the usual [inlet, [branches...], outlet] shape
func NewTopology(inlet string, branches []string, outlet string) Topology {
	return Topology{Inlet: inlet, Branches: append([]string(nil), branches...), Outlet: outlet}
}

// Flatten returns every branch name in flow order
func (t Topology) Flatten() []string {
	names := make([]string, 0, len(t.Branches)+2)
	names = append(names, t.Inlet)
	names = append(names, t.Branches...)
	return append(names, t.Outlet)
}
