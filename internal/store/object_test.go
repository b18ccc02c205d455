package store

import (
	"testing"

	"loopwright/internal/domain"
	"loopwright/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc() *Document {
	return NewDocument(schema.Builtin())
}

func TestObjectGetSet(t *testing.T) {
	doc := newDoc()
	pump, err := doc.NewObject("Pump:VariableSpeed", "P1")
	require.NoError(t, err)

	assert.Equal(t, "P1", pump.Name())
	assert.Equal(t, "Pump:VariableSpeed", pump.Type())

	v, err := pump.Get("Inlet_Node_Name")
	require.NoError(t, err)
	assert.True(t, v.IsBlank())

	require.NoError(t, pump.Set("inlet_node_name", "n1"))
	s, err := pump.GetString("Inlet_Node_Name")
	require.NoError(t, err)
	assert.Equal(t, "n1", s)

	_, err = pump.Get("Nope")
	assert.ErrorIs(t, err, ErrFieldNotFound)
	assert.ErrorIs(t, pump.Set("Nope", "x"), ErrFieldNotFound)
}

func TestObjectStage(t *testing.T) {
	doc := newDoc()
	pump, err := doc.NewObject("Pump:VariableSpeed", "P1")
	require.NoError(t, err)
	require.NoError(t, pump.Set("Inlet_Node_Name", "a"))

	require.NoError(t, pump.Stage("Inlet_Node_Name", "b"))
	v, err := pump.Get("Inlet_Node_Name")
	require.NoError(t, err)
	r, ok := v.Rename()
	require.True(t, ok)
	assert.Equal(t, domain.Rename{Old: "a", New: "b"}, r)
	assert.Equal(t, "b", v.Text())

	// Restaging keeps the identifier the field held before the first stage.
	require.NoError(t, pump.Stage("Inlet_Node_Name", "c"))
	v, _ = pump.Get("Inlet_Node_Name")
	r, _ = v.Rename()
	assert.Equal(t, domain.Rename{Old: "a", New: "c"}, r)

	assert.ErrorIs(t, pump.Stage("Rated_Flow_Rate", "x"), ErrNotNodeField)
	assert.ErrorIs(t, pump.Stage("Nope", "x"), ErrFieldNotFound)
}

func TestFieldNamesBySuffix(t *testing.T) {
	doc := newDoc()
	chiller, err := doc.NewObject("Chiller:Electric", "C1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Chilled_Water_Inlet_Node_Name",
		"Condenser_Inlet_Node_Name",
	}, chiller.FieldNamesBySuffix(string(domain.RoleInlet)))

	branch, err := doc.NewObject("Branch", "B1")
	require.NoError(t, err)
	assert.Empty(t, branch.FieldNamesBySuffix(string(domain.RoleInlet)))

	require.NoError(t, branch.GrowExtensible(2))
	assert.Equal(t, []string{
		"Component_1_Inlet_Node_Name",
		"Component_2_Inlet_Node_Name",
	}, branch.FieldNamesBySuffix(string(domain.RoleInlet)))
}

func TestExtensibleGroups(t *testing.T) {
	doc := newDoc()
	list, err := doc.NewObject("BranchList", "L1")
	require.NoError(t, err)

	require.NoError(t, list.AppendGroup("a"))
	require.NoError(t, list.AppendGroup("b"))
	assert.Equal(t, 2, list.ExtensibleLen())

	groups := list.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0].Text(0))
	assert.Equal(t, "b", groups[1].Text(0))
	assert.Equal(t, "", groups[1].Text(5))

	s, err := list.GetString("Branch_2_Name")
	require.NoError(t, err)
	assert.Equal(t, "b", s)

	list.ClearExtensible()
	assert.Zero(t, list.ExtensibleLen())
	assert.Empty(t, list.Groups())
	assert.Equal(t, "L1", list.Name())
}

func TestGroupsTrimTrailingBlank(t *testing.T) {
	doc := newDoc()
	list, err := doc.NewObject("BranchList", "L1")
	require.NoError(t, err)
	require.NoError(t, list.GrowExtensible(3))
	require.NoError(t, list.SetGroup(0, Plain("a")))

	assert.Equal(t, 3, list.GroupCount())
	assert.Len(t, list.Groups(), 1)
	require.NoError(t, list.AppendGroup("b"))
	s, _ := list.GetString("Branch_2_Name")
	assert.Equal(t, "b", s)
}

func TestGroupLimit(t *testing.T) {
	doc := newDoc()
	cl, err := doc.NewObject("ConnectorList", "CL")
	require.NoError(t, err)

	require.NoError(t, cl.AppendGroup("Connector:Splitter", "s"))
	require.NoError(t, cl.AppendGroup("Connector:Mixer", "m"))
	assert.ErrorIs(t, cl.AppendGroup("Connector:Mixer", "x"), ErrGroupLimit)

	_, err = cl.Get("Connector_3_Object_Type")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestSetGroupErrors(t *testing.T) {
	doc := newDoc()
	pump, err := doc.NewObject("Pump:VariableSpeed", "P1")
	require.NoError(t, err)
	assert.ErrorIs(t, pump.SetGroup(0, Plain("x")), ErrFieldNotFound)
	assert.ErrorIs(t, pump.GrowExtensible(1), ErrFieldNotFound)

	list, err := doc.NewObject("BranchList", "L1")
	require.NoError(t, err)
	assert.Error(t, list.SetGroup(0, Plain("a"), Plain("b")))
}

func TestWalk(t *testing.T) {
	doc := newDoc()
	pump, err := doc.NewObject("Pump:VariableSpeed", "P1")
	require.NoError(t, err)
	require.NoError(t, pump.Set("Inlet_Node_Name", "a"))
	require.NoError(t, pump.Set("Outlet_Node_Name", "b"))

	changed := pump.Walk(func(f schema.FieldDef, v Value) (Value, bool) {
		if f.IsNode() && v.Text() == "a" {
			return Plain("z"), true
		}
		return v, false
	})
	assert.Equal(t, 1, changed)
	s, _ := pump.GetString("Inlet_Node_Name")
	assert.Equal(t, "z", s)
}

func TestValue(t *testing.T) {
	assert.True(t, Plain("").IsBlank())
	assert.True(t, Plain("  ").IsBlank())
	assert.False(t, Plain("x").IsPending())

	p := Pending(domain.Rename{Old: "", New: "n"})
	assert.True(t, p.IsPending())
	assert.False(t, p.IsBlank())
	assert.Equal(t, domain.NodeID("n"), p.Node())
	assert.Equal(t, Plain("n"), p.Collapse())
	assert.Equal(t, Plain("x"), Plain("x").Collapse())
}
