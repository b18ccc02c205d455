package domain

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplifyFieldName(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"Plant Side Inlet Node Name", "Supply Inlet"},
		{"Plant Side Branch List Name", "Supply Branchs"},
		{"Plant Side Connector List Name", "Supply Connectors"},
		{"Demand Side Outlet Node Name", "Demand Outlet"},
		{"Condenser Side Branch List Name", "Cond_Supply Branchs"},
		{"Condenser Demand Side Branch List Name", "Condenser Demand Branchs"},
		{"Demand Side Inlet Node Names", "Demand Inlet"},
		{"Branch List Name", "Branchs"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, SimplifyFieldName(tt.field))
		})
	}
}

func TestSanitizeFieldName(t *testing.T) {
	assert.Equal(t, "Plant_Side_Inlet_Node_Name", SanitizeFieldName(" Plant Side Inlet Node Name "))
	assert.Equal(t, "Air_Loop_Side_Node", SanitizeFieldName("Air-Loop Side Node"))
}

func TestGeneratedFieldValues(t *testing.T) {
	spec, err := SpecFor(VariantPlant)
	require.NoError(t, err)

	values := spec.GeneratedFieldValues("CW Loop")
	assert.Len(t, values, len(spec.Fields))
	assert.Equal(t, "CW Loop Supply Inlet", values[spec.SupplyInlet])
	assert.Equal(t, "CW Loop Supply Branchs", values[spec.SupplyBranchList])
	assert.Equal(t, "CW Loop Demand Connectors", values[spec.DemandConnectorList])
}

func TestLoopSpecCounts(t *testing.T) {
	tests := []struct {
		variant    Variant
		lists      int
		connectors int
		pipes      bool
	}{
		{VariantPlant, 2, 2, true},
		{VariantCondenser, 2, 2, true},
		{VariantAir, 1, 1, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			spec, err := SpecFor(tt.variant)
			require.NoError(t, err)
			assert.Equal(t, tt.lists, spec.BranchListCount())
			assert.Equal(t, tt.connectors, spec.ConnectorListCount())
			assert.Equal(t, tt.pipes, spec.DemandPipes)
		})
	}

	_, err := SpecFor("SteamLoop")
	assert.Error(t, err)
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("plantloop")
	require.NoError(t, err)
	assert.Equal(t, VariantPlant, v)

	_, err = ParseVariant("loop")
	assert.Error(t, err)
}

func TestFluid(t *testing.T) {
	assert.Equal(t, FluidWater, ParseFluid(" WATER "))
	assert.Equal(t, FluidNone, ParseFluid(""))
	assert.Equal(t, Fluid("Glycol"), ParseFluid("glycol"))
	assert.Equal(t, Fluid("Éthanol"), ParseFluid("éTHANOL"))
	assert.True(t, utf8.ValidString(string(ParseFluid("ü"))))

	assert.Equal(t, "Water", FluidSteam.PortMatch())
	assert.Equal(t, "Air", FluidAir.PortMatch())
	assert.Equal(t, "", FluidNone.PortMatch())

	assert.True(t, FluidWater.IsLiquid())
	assert.True(t, FluidSteam.IsLiquid())
	assert.False(t, FluidAir.IsLiquid())
	assert.False(t, FluidNone.IsLiquid())
}

func TestRenameTable(t *testing.T) {
	table := NewRenameTable(RenameReject)
	require.NoError(t, table.Add(Rename{Old: "a", New: "b"}))
	require.NoError(t, table.Add(Rename{Old: "a", New: "b"}))
	require.NoError(t, table.Add(Rename{Old: "", New: "x"}))
	require.NoError(t, table.Add(Rename{Old: "c", New: "d"}))

	assert.Equal(t, 2, table.Len())
	next, ok := table.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, NodeID("b"), next)
	_, ok = table.Lookup("")
	assert.False(t, ok)
	assert.Equal(t, []Rename{{Old: "a", New: "b"}, {Old: "c", New: "d"}}, table.Renames())

	err := table.Add(Rename{Old: "a", New: "z"})
	var conflict *RenameConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, NodeID("b"), conflict.Existing)
	assert.Equal(t, NodeID("z"), conflict.Incoming)
}

func TestRenameTableLastWins(t *testing.T) {
	table := NewRenameTable(RenameLastWins)
	require.NoError(t, table.Add(Rename{Old: "a", New: "b"}))
	require.NoError(t, table.Add(Rename{Old: "a", New: "z"}))
	next, _ := table.Lookup("a")
	assert.Equal(t, NodeID("z"), next)

	assert.False(t, RenamePolicy("first_wins").Valid())
	fallback := NewRenameTable("first_wins")
	require.NoError(t, fallback.Add(Rename{Old: "a", New: "b"}))
	assert.Error(t, fallback.Add(Rename{Old: "a", New: "c"}))
}

func TestNodeNames(t *testing.T) {
	assert.Equal(t, NodeID("P1_B1_node"), BetweenNode("P1", "B1"))
	assert.Equal(t, NodeID("P1_Inlet_Node_Name"), DefaultPortNode("P1", "Inlet_Node_Name"))
	assert.Equal(t, NodeID("b_pipe_inlet"), PlaceholderInlet("b_pipe"))
	assert.Equal(t, NodeID("b_pipe_outlet"), PlaceholderOutlet("b_pipe"))
	assert.Equal(t, NodeID("Z1 Inlet Node"), ZoneInletNode("Z1"))
	assert.Equal(t, NodeID("Z1 Node"), ZoneAirNode("Z1"))
	assert.Equal(t, NodeID("Z1 Outlet Node"), ZoneOutletNode("Z1"))
	assert.True(t, NodeID(" ").IsBlank())
	assert.True(t, Rename{Old: "a", New: "a"}.IsIdentity())
}

func TestTopologyFlatten(t *testing.T) {
	branches := []string{"b1", "b2"}
	top := NewTopology("in", branches, "out")
	branches[0] = "changed"
	assert.Equal(t, []string{"in", "b1", "b2", "out"}, top.Flatten())
}
