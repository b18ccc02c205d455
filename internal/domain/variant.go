package domain

import (
	"fmt"
	"strings"
)

// Variant is the kind of loop being synthesized
type Variant string

const (
	VariantPlant     Variant = "PlantLoop"
	VariantCondenser Variant = "CondenserLoop"
	VariantAir       Variant = "AirLoopHVAC"
)

// ParseVariant accepts a variant name in any case
func ParseVariant(s string) (Variant, error) {
	for _, v := range []Variant{VariantPlant, VariantCondenser, VariantAir} {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown loop variant %q", s)
}

// LoopSpec is the per-variant configuration record. Field names are the
// sanitized object field names; an empty name means the variant has no such field.
type LoopSpec struct {
	Variant    Variant
	ObjectType string

	// Fields lists the canonical loop field names initialized at creation, in schema order
	Fields []string

	SupplyInlet         string
	SupplyOutlet        string
	SupplyBranchList    string
	SupplyConnectorList string

	DemandInlet         string
	DemandOutlet        string
	DemandBranchList    string
	DemandConnectorList string

	// DemandPipes is true when the demand side is built from pipe branches
	DemandPipes bool
}

// BranchListCount returns how many branch lists the variant allocates
func (s *LoopSpec) BranchListCount() int {
	if s.DemandBranchList == "" {
		return 1
	}
	return 2
}

// ConnectorListCount returns how many connector lists the variant allocates
func (s *LoopSpec) ConnectorListCount() int {
	if s.DemandConnectorList == "" {
		return 1
	}
	return 2
}

var loopSpecs = map[Variant]*LoopSpec{
	VariantPlant: {
		Variant:    VariantPlant,
		ObjectType: "PlantLoop",
		Fields: []string{
			"Plant Side Inlet Node Name",
			"Plant Side Outlet Node Name",
			"Plant Side Branch List Name",
			"Plant Side Connector List Name",
			"Demand Side Inlet Node Name",
			"Demand Side Outlet Node Name",
			"Demand Side Branch List Name",
			"Demand Side Connector List Name",
		},
		SupplyInlet:         "Plant_Side_Inlet_Node_Name",
		SupplyOutlet:        "Plant_Side_Outlet_Node_Name",
		SupplyBranchList:    "Plant_Side_Branch_List_Name",
		SupplyConnectorList: "Plant_Side_Connector_List_Name",
		DemandInlet:         "Demand_Side_Inlet_Node_Name",
		DemandOutlet:        "Demand_Side_Outlet_Node_Name",
		DemandBranchList:    "Demand_Side_Branch_List_Name",
		DemandConnectorList: "Demand_Side_Connector_List_Name",
		DemandPipes:         true,
	},
	VariantCondenser: {
		Variant:    VariantCondenser,
		ObjectType: "CondenserLoop",
		Fields: []string{
			"Condenser Side Inlet Node Name",
			"Condenser Side Outlet Node Name",
			"Condenser Side Branch List Name",
			"Condenser Side Connector List Name",
			"Demand Side Inlet Node Name",
			"Demand Side Outlet Node Name",
			"Condenser Demand Side Branch List Name",
			"Condenser Demand Side Connector List Name",
		},
		SupplyInlet:         "Condenser_Side_Inlet_Node_Name",
		SupplyOutlet:        "Condenser_Side_Outlet_Node_Name",
		SupplyBranchList:    "Condenser_Side_Branch_List_Name",
		SupplyConnectorList: "Condenser_Side_Connector_List_Name",
		DemandInlet:         "Demand_Side_Inlet_Node_Name",
		DemandOutlet:        "Demand_Side_Outlet_Node_Name",
		DemandBranchList:    "Condenser_Demand_Side_Branch_List_Name",
		DemandConnectorList: "Condenser_Demand_Side_Connector_List_Name",
		DemandPipes:         true,
	},
	VariantAir: {
		Variant:    VariantAir,
		ObjectType: "AirLoopHVAC",
		Fields: []string{
			"Branch List Name",
			"Connector List Name",
			"Supply Side Inlet Node Name",
			"Demand Side Outlet Node Name",
			"Demand Side Inlet Node Names",
			"Supply Side Outlet Node Names",
		},
		SupplyInlet:         "Supply_Side_Inlet_Node_Name",
		SupplyOutlet:        "Supply_Side_Outlet_Node_Names",
		SupplyBranchList:    "Branch_List_Name",
		SupplyConnectorList: "Connector_List_Name",
		DemandInlet:         "Demand_Side_Inlet_Node_Names",
		DemandOutlet:        "Demand_Side_Outlet_Node_Name",
		DemandPipes:         false,
	},
}

// SpecFor returns the configuration record of a variant
func SpecFor(v Variant) (*LoopSpec, error) {
	spec, ok := loopSpecs[v]
	if !ok {
		return nil, fmt.Errorf("unknown loop variant %q", v)
	}
	return spec, nil
}

// GeneratedFieldValues returns the value written into each canonical loop
// field, keyed by sanitized field name.
func (s *LoopSpec) GeneratedFieldValues(loopName string) map[string]string {
	values := make(map[string]string, len(s.Fields))
	for _, field := range s.Fields {
		values[SanitizeFieldName(field)] = fmt.Sprintf("%s %s", loopName, SimplifyFieldName(field))
	}
	return values
}
