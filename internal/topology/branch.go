package topology

import (
	"fmt"
	"strings"

	"loopwright/internal/domain"
	"loopwright/internal/store"
)

const (
	typeBranch         = "Branch"
	typeBranchList     = "BranchList"
	typeConnectorList  = "ConnectorList"
	typeSplitter       = "Connector:Splitter"
	typeMixer          = "Connector:Mixer"
	typePipe           = "Pipe:Adiabatic"
	branchEntryWidth   = 5
	controlTypeBypass  = "Bypass"
	fieldInletBranch   = "Inlet_Branch_Name"
	fieldOutletBranch  = "Outlet_Branch_Name"
	fieldInletNode     = "Inlet_Node_Name"
	fieldOutletNode    = "Outlet_Node_Name"
)

// BranchEntry is one component entry of a branch
type BranchEntry struct {
	ComponentType string
	ComponentName string
	Inlet         domain.NodeID
	Outlet        domain.NodeID
	ControlType   string
}

// WriteBranch replaces the component entries of branch with comps. Each entry
// records the component type and name, its resolved inlet and outlet values
// (pending renames included) and a blank control type. Chain must run first;
// WriteBranch does not connect anything itself.
func WriteBranch(branch *store.Object, comps []ComponentRef, fluid domain.Fluid) (*store.Object, error) {
	if !strings.EqualFold(branch.Type(), typeBranch) || branch.Def().GroupWidth() != branchEntryWidth {
		return nil, &StructureError{Op: "write branch", Reason: fmt.Sprintf("%s is not a branch", branch)}
	}

	entries := make([][]store.Value, 0, len(comps))
	for _, c := range comps {
		inlet, err := portValue(c, domain.RoleInlet, fluid)
		if err != nil {
			return nil, err
		}
		outlet, err := portValue(c, domain.RoleOutlet, fluid)
		if err != nil {
			return nil, err
		}
		entries = append(entries, []store.Value{
			store.Plain(c.Object.Type()),
			store.Plain(c.Object.Name()),
			inlet,
			outlet,
			store.Plain(""),
		})
	}

	branch.ClearExtensible()
	if err := branch.GrowExtensible(len(entries)); err != nil {
		return nil, err
	}
	for i, entry := range entries {
		if err := branch.SetGroup(i, entry...); err != nil {
			return nil, err
		}
	}
	return branch, nil
}

func portValue(c ComponentRef, role domain.Role, fluid domain.Fluid) (store.Value, error) {
	field, err := ResolvePort(c.Object, role, fluid, c.PortHint)
	if err != nil {
		return store.Value{}, err
	}
	return c.Object.Get(field)
}

// BranchEntries lists the component entries of a branch up to the first blank type
func BranchEntries(branch *store.Object) []BranchEntry {
	var entries []BranchEntry
	for _, g := range branch.Groups() {
		if strings.TrimSpace(g.Text(0)) == "" {
			break
		}
		entries = append(entries, BranchEntry{
			ComponentType: g.Text(0),
			ComponentName: g.Text(1),
			Inlet:         domain.NodeID(g.Text(2)),
			Outlet:        domain.NodeID(g.Text(3)),
			ControlType:   g.Text(4),
		})
	}
	return entries
}

// BranchComponents returns the component objects referenced by a branch, in order
func BranchComponents(doc Records, branch *store.Object) ([]*store.Object, error) {
	entries := BranchEntries(branch)
	comps := make([]*store.Object, 0, len(entries))
	for _, entry := range entries {
		obj, err := doc.Object(entry.ComponentType, entry.ComponentName)
		if err != nil {
			return nil, fmt.Errorf("branch %q: %w", branch.Name(), err)
		}
		comps = append(comps, obj)
	}
	return comps, nil
}

// placeholderBranch creates a branch holding one generated adiabatic pipe
func placeholderBranch(doc Records, branchName string) (*store.Object, error) {
	compName := branchName + "_pipe"
	comp, err := doc.NewObject(typePipe, compName)
	if err != nil {
		return nil, err
	}
	inlet, outlet := domain.PlaceholderInlet(compName), domain.PlaceholderOutlet(compName)
	if err := comp.Set(fieldInletNode, inlet.String()); err != nil {
		return nil, err
	}
	if err := comp.Set(fieldOutletNode, outlet.String()); err != nil {
		return nil, err
	}

	branch, err := doc.NewObject(typeBranch, branchName)
	if err != nil {
		return nil, err
	}
	if err := branch.AppendGroup(comp.Type(), compName, inlet.String(), outlet.String(), controlTypeBypass); err != nil {
		return nil, err
	}
	return branch, nil
}
