package codec

import (
	"errors"
	"fmt"
	"io"

	"loopwright/internal/domain"
	"loopwright/internal/topology"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Plan is a YAML build plan: loops to build and the branches to fill in afterwards.
//
//	loops:
//	  - variant: PlantLoop
//	    name: Hot Water Loop
//	    fluid: water
//	    supply: {inlet: s_in, branches: [boiler, bypass], outlet: s_out}
//	    demand: {inlet: d_in, branches: [coil], outlet: d_out}
//	    replace:
//	      - branch: boiler
//	        components:
//	          - {type: "Boiler:HotWater", name: Boiler1}
type Plan struct {
	Loops []LoopPlan `yaml:"loops" validate:"required,min=1,dive"`
}

// LoopPlan describes one loop
type LoopPlan struct {
	Variant string          `yaml:"variant" validate:"required,oneof=PlantLoop CondenserLoop AirLoopHVAC"`
	Name    string          `yaml:"name" validate:"required"`
	Fluid   string          `yaml:"fluid,omitempty"`
	Supply  domain.Topology `yaml:"supply"`
	Demand  domain.Topology `yaml:"demand"`
	Replace []BranchPlan    `yaml:"replace,omitempty" validate:"dive"`
}

// BranchPlan replaces the components of one branch
type BranchPlan struct {
	Branch     string                   `yaml:"branch" validate:"required"`
	Components []topology.ComponentSpec `yaml:"components" validate:"required,min=1,dive"`
}

// ParsePlan reads and validates a build plan
func ParsePlan(r io.Reader) (*Plan, error) {
	var p Plan
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if err := validate.Struct(&p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("invalid plan: %s", verrs.Error())
		}
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	return &p, nil
}

// VariantOf returns the parsed loop variant
func (lp *LoopPlan) VariantOf() (domain.Variant, error) {
	return domain.ParseVariant(lp.Variant)
}

// FluidOf returns the parsed fluid hint
func (lp *LoopPlan) FluidOf() domain.Fluid {
	return domain.ParseFluid(lp.Fluid)
}
