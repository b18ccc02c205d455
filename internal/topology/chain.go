package topology

import (
	"fmt"

	"loopwright/internal/domain"
	"loopwright/internal/store"
)

// ComponentRef is a component placed on a branch. PortHint selects the port
// family of components with several inlets and outlets ("Condenser_",
// "Chilled_Water_").
type ComponentRef struct {
	Object   *store.Object
	PortHint string
}

// Chain connects components in order by staging one shared node between the
// outlet of each component and the inlet of the next. Blank ports are first
// given default identifiers. The staged renames are applied by the next
// PropagateRenames call, which must run before Chain is called again with
// different neighbours.
func Chain(comps []ComponentRef, fluid domain.Fluid) ([]ComponentRef, error) {
	for _, c := range comps {
		if c.Object == nil {
			return nil, &StructureError{Op: "chain", Reason: "nil component"}
		}
		for _, role := range []domain.Role{domain.RoleInlet, domain.RoleOutlet} {
			if _, err := ResolvePort(c.Object, role, fluid, c.PortHint); err != nil {
				return nil, fmt.Errorf("chain: %w", err)
			}
		}
	}

	if len(comps) == 1 {
		c := comps[0]
		if err := initPorts(c); err != nil {
			return nil, err
		}
		// a lone component keeps its own outlet
		field, err := ResolvePort(c.Object, domain.RoleOutlet, fluid, c.PortHint)
		if err != nil {
			return nil, err
		}
		current, err := c.Object.Get(field)
		if err != nil {
			return nil, err
		}
		if err := c.Object.Stage(field, current.Node()); err != nil {
			return nil, err
		}
		return comps, nil
	}

	for i := 0; i < len(comps)-1; i++ {
		this, next := comps[i], comps[i+1]
		if err := initPorts(this); err != nil {
			return nil, err
		}
		if err := initPorts(next); err != nil {
			return nil, err
		}
		between := domain.BetweenNode(this.Object.Name(), next.Object.Name())

		outlet, err := ResolvePort(this.Object, domain.RoleOutlet, fluid, this.PortHint)
		if err != nil {
			return nil, err
		}
		if err := this.Object.Stage(outlet, between); err != nil {
			return nil, err
		}
		inlet, err := ResolvePort(next.Object, domain.RoleInlet, fluid, next.PortHint)
		if err != nil {
			return nil, err
		}
		if err := next.Object.Stage(inlet, between); err != nil {
			return nil, err
		}
	}
	return comps, nil
}

// initPorts gives every blank inlet and outlet of the selected port family a default identifier
func initPorts(c ComponentRef) error {
	for _, role := range []domain.Role{domain.RoleInlet, domain.RoleOutlet} {
		fields, err := portFields(c.Object, role, c.PortHint)
		if err != nil {
			return err
		}
		for _, field := range fields {
			v, err := c.Object.Get(field)
			if err != nil {
				return err
			}
			if v.IsBlank() {
				node := domain.DefaultPortNode(c.Object.Name(), field)
				if err := c.Object.Set(field, node.String()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
