package codec

import (
	"bytes"
	"strings"
	"testing"

	"loopwright/internal/domain"
	"loopwright/internal/schema"
	"loopwright/internal/store"
	"loopwright/internal/topology"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtPlant(t *testing.T) *store.Document {
	t.Helper()
	doc := store.NewDocument(schema.Builtin())
	e := topology.New(doc)
	l, err := e.BuildLoop(domain.VariantPlant, "HW Loop",
		domain.NewTopology("s_in", []string{"boiler", "bypass"}, "s_out"),
		domain.NewTopology("d_in", []string{"coil"}, "d_out"))
	require.NoError(t, err)
	_, err = e.ReplaceBranch(l, "boiler", []topology.ComponentSpec{
		{Type: "Pump:VariableSpeed", Name: "P1"},
		{Type: "Boiler:HotWater", Name: "B1"},
	}, domain.FluidWater)
	require.NoError(t, err)
	return doc
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			c, err := ForFormat(format)
			require.NoError(t, err)
			doc := builtPlant(t)

			var first bytes.Buffer
			require.NoError(t, c.Encode(doc, &first))

			decoded, err := c.Decode(bytes.NewReader(first.Bytes()), schema.Builtin())
			require.NoError(t, err)
			assert.Equal(t, doc.Len(), decoded.Len())
			assert.Equal(t, doc.Types(), decoded.Types())

			var second bytes.Buffer
			require.NoError(t, c.Encode(decoded, &second))
			assert.Equal(t, first.String(), second.String())

			branch, err := decoded.Object("Branch", "boiler")
			require.NoError(t, err)
			entries := topology.BranchEntries(branch)
			require.Len(t, entries, 2)
			assert.Equal(t, domain.NodeID("P1_B1_node"), entries[0].Outlet)
		})
	}
}

func TestEncodeRejectsPendingRenames(t *testing.T) {
	doc := store.NewDocument(schema.Builtin())
	pipe, err := doc.NewObject("Pipe:Adiabatic", "p")
	require.NoError(t, err)
	require.NoError(t, pipe.Stage("Inlet_Node_Name", "x"))

	err = NewJSONCodec().Encode(doc, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrPendingRenames)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"objects": [`},
		{"unknown type", `{"version": 1, "objects": [{"type": "Boiler:Fusion", "values": ["b"]}]}`},
		{"too many values", `{"version": 1, "objects": [{"type": "Pipe:Adiabatic", "values": ["p", "a", "b", "c"]}]}`},
		{"duplicate name", `{"version": 1, "objects": [{"type": "Duct", "values": ["d"]}, {"type": "duct", "values": ["D"]}]}`},
		{"newer version", `{"version": 2, "objects": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJSONCodec().Decode(strings.NewReader(tt.input), schema.Builtin())
			assert.Error(t, err)
		})
	}
}

func TestYAMLDecode(t *testing.T) {
	input := `
version: 1
objects:
  - type: Pipe:Adiabatic
    values: [np1, a, b]
  - type: BranchList
    values: [list, one, two]
`
	doc, err := NewYAMLCodec().Decode(strings.NewReader(input), schema.Builtin())
	require.NoError(t, err)

	list, err := doc.Object("BranchList", "list")
	require.NoError(t, err)
	require.Len(t, list.Groups(), 2)
	assert.Equal(t, "two", list.Groups()[1].Text(0))

	pipe, err := doc.Object("Pipe:Adiabatic", "np1")
	require.NoError(t, err)
	out, err := pipe.GetString("Outlet_Node_Name")
	require.NoError(t, err)
	assert.Equal(t, "b", out)
}

func TestForFormat(t *testing.T) {
	c, err := ForFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Format())

	_, err = ForFormat("idf")
	assert.Error(t, err)
}
