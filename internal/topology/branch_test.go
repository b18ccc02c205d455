package topology

import (
	"testing"

	"loopwright/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBranch(t *testing.T) {
	doc := newDoc(t)
	branch := newComponent(t, doc, "Branch", "heating")
	pump := newComponent(t, doc, "Pump:VariableSpeed", "P1")
	boiler := newComponent(t, doc, "Boiler:HotWater", "B1")

	chainAndWrite(t, doc, branch, []ComponentRef{{Object: pump}, {Object: boiler}})

	assert.Equal(t, 10, branch.ExtensibleLen())
	entries := BranchEntries(branch)
	require.Len(t, entries, 2)

	assert.Equal(t, BranchEntry{
		ComponentType: "Pump:VariableSpeed",
		ComponentName: "P1",
		Inlet:         "P1_Inlet_Node_Name",
		Outlet:        "P1_B1_node",
	}, entries[0])
	assert.Equal(t, BranchEntry{
		ComponentType: "Boiler:HotWater",
		ComponentName: "B1",
		Inlet:         "P1_B1_node",
		Outlet:        "B1_Boiler_Water_Outlet_Node_Name",
	}, entries[1])
	assert.Equal(t, entries[0].Outlet, entries[1].Inlet)
	assert.Zero(t, doc.PendingCount())
}

func TestWriteBranchTruncatesPreviousEntries(t *testing.T) {
	doc := newDoc(t)
	branch := newComponent(t, doc, "Branch", "heating")
	p1 := newComponent(t, doc, "Pump:VariableSpeed", "P1")
	p2 := newComponent(t, doc, "Pipe:Adiabatic", "np2")
	p3 := newComponent(t, doc, "Pipe:Adiabatic", "np3")

	chainAndWrite(t, doc, branch, []ComponentRef{{Object: p1}, {Object: p2}})
	require.Equal(t, 10, branch.ExtensibleLen())

	chainAndWrite(t, doc, branch, []ComponentRef{{Object: p3}})
	assert.Equal(t, 5, branch.ExtensibleLen())

	entries := BranchEntries(branch)
	require.Len(t, entries, 1)
	assert.Equal(t, "np3", entries[0].ComponentName)
	assert.Empty(t, entries[0].ControlType)
}

func TestWriteBranchRejectsOtherTypes(t *testing.T) {
	doc := newDoc(t)
	list := newComponent(t, doc, "BranchList", "list")
	pump := newComponent(t, doc, "Pump:VariableSpeed", "P1")

	_, err := WriteBranch(list, []ComponentRef{{Object: pump}}, domain.FluidNone)
	var structure *StructureError
	assert.ErrorAs(t, err, &structure)
}

func TestWriteBranchResolvesBeforeWriting(t *testing.T) {
	doc := newDoc(t)
	branch := newComponent(t, doc, "Branch", "cooling")
	pipe := newComponent(t, doc, "Pipe:Adiabatic", "np1")
	chainAndWrite(t, doc, branch, []ComponentRef{{Object: pipe}})

	chiller := newComponent(t, doc, "Chiller:Electric", "Chiller")
	_, err := WriteBranch(branch, []ComponentRef{{Object: chiller}}, domain.FluidWater)
	var ambiguous *AmbiguousPortError
	require.ErrorAs(t, err, &ambiguous)

	entries := BranchEntries(branch)
	require.Len(t, entries, 1)
	assert.Equal(t, "np1", entries[0].ComponentName)
}

func TestBranchComponents(t *testing.T) {
	doc := newDoc(t)
	branch := newComponent(t, doc, "Branch", "heating")
	pump := newComponent(t, doc, "Pump:VariableSpeed", "P1")
	boiler := newComponent(t, doc, "Boiler:HotWater", "B1")
	chainAndWrite(t, doc, branch, []ComponentRef{{Object: pump}, {Object: boiler}})

	comps, err := BranchComponents(doc, branch)
	require.NoError(t, err)
	require.Len(t, comps, 2)
	assert.Same(t, pump, comps[0])
	assert.Same(t, boiler, comps[1])
}
