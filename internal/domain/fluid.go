package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fluid hints which port family of a multi-fluid component to use
type Fluid string

const (
	FluidNone  Fluid = ""
	FluidWater Fluid = "Water"
	FluidAir   Fluid = "Air"
	FluidSteam Fluid = "Steam"
)

// ParseFluid normalizes a fluid name. Unknown names are kept with their first letter upper-cased.
func ParseFluid(s string) Fluid {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return FluidNone
	case "water":
		return FluidWater
	case "air":
		return FluidAir
	case "steam":
		return FluidSteam
	}
	first, size := utf8.DecodeRuneInString(s)
	return Fluid(string(unicode.ToUpper(first)) + strings.ToLower(s[size:]))
}

// PortMatch is the substring searched for in port field names. Steam ports are water ports.
func (f Fluid) PortMatch() string {
	if f == FluidSteam {
		return string(FluidWater)
	}
	return string(f)
}

// IsLiquid reports whether the fluid runs through plant or condenser piping
func (f Fluid) IsLiquid() bool {
	return f == FluidWater || f == FluidSteam
}

// Role is the field-name suffix of a port
type Role string

const (
	RoleInlet  Role = "Inlet_Node_Name"
	RoleOutlet Role = "Outlet_Node_Name"
)

// String returns a short label for logs and errors
func (r Role) String() string {
	switch r {
	case RoleInlet:
		return "inlet"
	case RoleOutlet:
		return "outlet"
	}
	return string(r)
}
