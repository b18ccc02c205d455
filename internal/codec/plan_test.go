package codec

import (
	"strings"
	"testing"

	"loopwright/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `
loops:
  - variant: PlantLoop
    name: Hot Water Loop
    fluid: water
    supply: {inlet: s_in, branches: [boiler, bypass], outlet: s_out}
    demand: {inlet: d_in, branches: [coil], outlet: d_out}
    replace:
      - branch: boiler
        components:
          - {type: "Pump:VariableSpeed", name: HW Pump}
          - {type: "Boiler:HotWater", name: Boiler1, port_hint: Boiler_}
  - variant: AirLoopHVAC
    name: AHU
    supply: {inlet: s_in, branches: [main], outlet: s_out}
    demand: {inlet: d_in, branches: [Z1, Z2], outlet: d_out}
`

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan(strings.NewReader(samplePlan))
	require.NoError(t, err)
	require.Len(t, p.Loops, 2)

	hw := p.Loops[0]
	v, err := hw.VariantOf()
	require.NoError(t, err)
	assert.Equal(t, domain.VariantPlant, v)
	assert.Equal(t, domain.FluidWater, hw.FluidOf())
	assert.Equal(t, domain.NewTopology("s_in", []string{"boiler", "bypass"}, "s_out"), hw.Supply)
	require.Len(t, hw.Replace, 1)
	assert.Equal(t, "Boiler_", hw.Replace[0].Components[1].PortHint)

	assert.Equal(t, domain.FluidNone, p.Loops[1].FluidOf())
}

func TestParsePlanInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", "loops: []"},
		{"unknown variant", "loops:\n  - {variant: SteamLoop, name: x, supply: {inlet: a, branches: [b], outlet: c}, demand: {inlet: d, branches: [e], outlet: f}}"},
		{"missing demand", "loops:\n  - {variant: PlantLoop, name: x, supply: {inlet: a, branches: [b], outlet: c}}"},
		{"component without name", "loops:\n  - {variant: PlantLoop, name: x, supply: {inlet: a, branches: [b], outlet: c}, demand: {inlet: d, branches: [e], outlet: f}, replace: [{branch: b, components: [{type: Duct}]}]}"},
		{"unknown key", "loops:\n  - {variant: PlantLoop, nmae: x}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
