package topology

import (
	"errors"
	"fmt"
	"strings"

	"loopwright/internal/domain"
	"loopwright/internal/store"

	"go.uber.org/zap"
)

// ComponentSpec names a component to put on a branch. The instance is
// created when the document does not hold it yet.
type ComponentSpec struct {
	Type     string `json:"type" yaml:"type" validate:"required"`
	Name     string `json:"name" yaml:"name" validate:"required"`
	PortHint string `json:"port_hint,omitempty" yaml:"port_hint,omitempty"`
}

// ReplaceBranch puts the components named by specs on the branch called
// branchName, replacing what it held.
func (e *Engine) ReplaceBranch(l *Loop, branchName string, specs []ComponentSpec, fluid domain.Fluid) (*store.Object, error) {
	if len(specs) == 0 {
		return nil, &StructureError{Op: "replace branch", Reason: "no components"}
	}
	for _, s := range specs {
		if _, ok := e.doc.Schema().Lookup(s.Type); !ok {
			return nil, &UnknownComponentTypeError{TypeName: s.Type}
		}
		if strings.TrimSpace(s.Name) == "" {
			return nil, &StructureError{Op: "replace branch", Reason: fmt.Sprintf("%s component has no name", s.Type)}
		}
	}

	branch, err := e.doc.Object(typeBranch, branchName)
	if err != nil {
		return nil, fmt.Errorf("replace branch: %w", err)
	}

	comps := make([]ComponentRef, 0, len(specs))
	for _, s := range specs {
		obj, err := e.getOrCreate(s.Type, s.Name)
		if err != nil {
			return nil, err
		}
		comps = append(comps, ComponentRef{Object: obj, PortHint: s.PortHint})
	}
	return e.Replace(l, branch, comps, fluid)
}

func (e *Engine) getOrCreate(typeName, name string) (*store.Object, error) {
	obj, err := e.doc.Object(typeName, name)
	if err == nil {
		return obj, nil
	}
	if !errors.Is(err, store.ErrObjectNotFound) {
		return nil, err
	}
	return e.doc.NewObject(typeName, name)
}

// Replace chains comps onto branch and writes them into it. When branch is
// the first branch under a splitter or the last branch under a mixer, the
// outer port is rebound to the loop's own inlet or outlet node. Demand-side
// boundaries are only rebound for liquid loops. On error the branch and the
// components get their previous values back and no rename is left staged.
func (e *Engine) Replace(l *Loop, branch *store.Object, comps []ComponentRef, fluid domain.Fluid) (*store.Object, error) {
	saved := saveObjects(branch, comps)
	rebound, err := e.replace(l, branch, comps, fluid)
	if err != nil {
		saved.restore()
		if n := revertPending(e.doc); n > 0 {
			e.log.Debug("staged renames reverted", zap.String("branch", branch.Name()), zap.Int("fields", n))
		}
		return nil, err
	}
	e.log.Info("branch replaced",
		zap.String("loop", l.Name()),
		zap.String("branch", branch.Name()),
		zap.Int("components", len(comps)),
		zap.Int("boundaries", rebound),
	)
	return branch, nil
}

func (e *Engine) replace(l *Loop, branch *store.Object, comps []ComponentRef, fluid domain.Fluid) (int, error) {
	if _, err := Chain(comps, fluid); err != nil {
		return 0, err
	}
	if _, err := WriteBranch(branch, comps, fluid); err != nil {
		return 0, err
	}
	if _, err := e.Propagate(); err != nil {
		return 0, err
	}

	rebound, err := e.rebindBoundary(l.SupplyConnectors, branch, comps, fluid,
		l.Node(l.Spec.SupplyInlet), l.Node(l.Spec.SupplyOutlet))
	if err != nil {
		return 0, err
	}
	if fluid.IsLiquid() && l.DemandConnectors != nil {
		n, err := e.rebindBoundary(l.DemandConnectors, branch, comps, fluid,
			l.Node(l.Spec.DemandInlet), l.Node(l.Spec.DemandOutlet))
		if err != nil {
			return 0, err
		}
		rebound += n
	}

	if _, err := e.Propagate(); err != nil {
		return 0, err
	}
	return rebound, nil
}

// savedObjects holds copies of object values taken before an edit
type savedObjects map[*store.Object][]store.Value

func saveObjects(branch *store.Object, comps []ComponentRef) savedObjects {
	saved := savedObjects{branch: branch.Values()}
	for _, c := range comps {
		if c.Object != nil {
			saved[c.Object] = c.Object.Values()
		}
	}
	return saved
}

func (s savedObjects) restore() {
	for obj, values := range s {
		obj.Reset(values)
	}
}

// rebindBoundary stages the loop boundary renames for branch on one side.
// It returns how many ports were staged.
func (e *Engine) rebindBoundary(connectors, branch *store.Object, comps []ComponentRef, fluid domain.Fluid, inlet, outlet domain.NodeID) (int, error) {
	if connectors == nil || len(comps) == 0 {
		return 0, nil
	}
	staged := 0
	for _, slot := range connectorSlots(connectors) {
		conn, err := e.doc.Object(slot.Type, slot.Name)
		if err != nil {
			e.log.Debug("connector not in document",
				zap.String("type", slot.Type),
				zap.String("name", slot.Name),
			)
			continue
		}

		var mainField string
		var ref ComponentRef
		var role domain.Role
		var node domain.NodeID
		switch {
		case strings.EqualFold(conn.Type(), typeSplitter):
			mainField, ref, role, node = fieldInletBranch, comps[0], domain.RoleInlet, inlet
		case strings.EqualFold(conn.Type(), typeMixer):
			mainField, ref, role, node = fieldOutletBranch, comps[len(comps)-1], domain.RoleOutlet, outlet
		default:
			continue
		}

		main, err := conn.GetString(mainField)
		if err != nil {
			return staged, err
		}
		if !strings.EqualFold(main, branch.Name()) {
			continue
		}
		if err := stagePort(ref, role, fluid, node); err != nil {
			return staged, err
		}
		staged++
	}
	return staged, nil
}
