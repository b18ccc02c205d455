package topology

import (
	"fmt"
	"strings"

	"loopwright/internal/domain"
	"loopwright/internal/store"
)

// ResolvePort returns the name of the field holding comp's port for role.
//
// When comp has several fields for the role, portHint must prefix one or more
// of them; otherwise an *AmbiguousPortError is returned. A fluid narrows the
// remaining candidates to names containing the fluid ("Steam" matches
// "Water"); if none contain it the first candidate is used.
func ResolvePort(comp *store.Object, role domain.Role, fluid domain.Fluid, portHint string) (string, error) {
	candidates, err := portFields(comp, role, portHint)
	if err != nil {
		return "", err
	}
	if match := fluid.PortMatch(); match != "" {
		for _, name := range candidates {
			if strings.Contains(name, match) {
				return name, nil
			}
		}
	}
	return candidates[0], nil
}

// portFields lists the fields of comp for role, narrowed by the hint when there are several
func portFields(comp *store.Object, role domain.Role, portHint string) ([]string, error) {
	names := comp.FieldNamesBySuffix(string(role))
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %s: %w", comp, role, ErrNoPort)
	}
	if len(names) == 1 {
		return names, nil
	}
	ambiguous := &AmbiguousPortError{
		ComponentType: comp.Type(),
		ComponentName: comp.Name(),
		Role:          role,
		Hint:          portHint,
		Candidates:    names,
	}
	if portHint == "" {
		return nil, ambiguous
	}
	var matched []string
	for _, name := range names {
		if len(name) >= len(portHint) && strings.EqualFold(name[:len(portHint)], portHint) {
			matched = append(matched, name)
		}
	}
	if len(matched) == 0 {
		return nil, ambiguous
	}
	return matched, nil
}
