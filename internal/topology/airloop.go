package topology

import (
	"strings"

	"loopwright/internal/domain"
	"loopwright/internal/store"
)

const (
	typeEquipmentConnections = "ZoneHVAC:EquipmentConnections"
	typeEquipmentList        = "ZoneHVAC:EquipmentList"
	typeDirectAir            = "AirTerminal:SingleDuct:Uncontrolled"
	typeZoneSplitter         = "AirLoopHVAC:ZoneSplitter"
	typeZoneMixer            = "AirLoopHVAC:ZoneMixer"
	typeSupplyPath           = "AirLoopHVAC:SupplyPath"
	typeReturnPath           = "AirLoopHVAC:ReturnPath"
)

func zoneSplitterName(loop string) string { return loop + " Demand Side Splitter" }
func zoneMixerName(loop string) string    { return loop + " Demand Side Mixer" }
func directAirName(zone string) string    { return zone + "DirectAir" }

// buildZoneEquipment gives every zone on the demand side of an air loop its
// equipment connections, an equipment list and a direct-air terminal.
func (e *Engine) buildZoneEquipment(l *Loop) error {
	for _, zone := range l.Demand.Branches {
		conn, err := e.doc.NewObject(typeEquipmentConnections, zone)
		if err != nil {
			return err
		}
		equipList := zone + " equip list"
		fields := [][2]string{
			{"Zone_Conditioning_Equipment_List_Name", equipList},
			{"Zone_Air_Inlet_Node_or_NodeList_Name", domain.ZoneInletNode(zone).String()},
			{"Zone_Air_Node_Name", domain.ZoneAirNode(zone).String()},
			{"Zone_Return_Air_Node_Name", domain.ZoneOutletNode(zone).String()},
		}
		if err := setFields(conn, fields); err != nil {
			return err
		}

		list, err := e.doc.NewObject(typeEquipmentList, equipList)
		if err != nil {
			return err
		}
		if err := list.AppendGroup(typeDirectAir, directAirName(zone), "1", "1"); err != nil {
			return err
		}

		terminal, err := e.doc.NewObject(typeDirectAir, directAirName(zone))
		if err != nil {
			return err
		}
		fields = [][2]string{
			{"Zone_Supply_Air_Node_Name", domain.ZoneInletNode(zone).String()},
			{"Maximum_Air_Flow_Rate", "autosize"},
		}
		if err := setFields(terminal, fields); err != nil {
			return err
		}
	}
	return nil
}

// buildZonePaths creates the zone splitter and zone mixer of an air loop and
// the supply and return paths tying them to the loop's demand-side nodes.
func (e *Engine) buildZonePaths(l *Loop) error {
	splitter, err := e.doc.NewObject(typeZoneSplitter, zoneSplitterName(l.Name()))
	if err != nil {
		return err
	}
	if err := splitter.Set(fieldInletNode, l.Node(l.Spec.DemandInlet).String()); err != nil {
		return err
	}
	mixer, err := e.doc.NewObject(typeZoneMixer, zoneMixerName(l.Name()))
	if err != nil {
		return err
	}
	if err := mixer.Set(fieldOutletNode, l.Node(l.Spec.DemandOutlet).String()); err != nil {
		return err
	}
	for _, zone := range l.Demand.Branches {
		if err := splitter.AppendGroup(domain.ZoneInletNode(zone).String()); err != nil {
			return err
		}
		if err := mixer.AppendGroup(domain.ZoneOutletNode(zone).String()); err != nil {
			return err
		}
	}

	supplyPath, err := e.doc.NewObject(typeSupplyPath, l.Name()+"SupplyPath")
	if err != nil {
		return err
	}
	if err := supplyPath.Set("Supply_Air_Path_Inlet_Node_Name", l.Node(l.Spec.DemandInlet).String()); err != nil {
		return err
	}
	if err := supplyPath.AppendGroup(typeZoneSplitter, splitter.Name()); err != nil {
		return err
	}

	returnPath, err := e.doc.NewObject(typeReturnPath, l.Name()+"ReturnPath")
	if err != nil {
		return err
	}
	if err := returnPath.Set("Return_Air_Path_Outlet_Node_Name", l.Node(l.Spec.DemandOutlet).String()); err != nil {
		return err
	}
	return returnPath.AppendGroup(typeZoneMixer, mixer.Name())
}

// readZones recovers the zone names of an air loop from its zone splitter
func (e *Engine) readZones(l *Loop) domain.Topology {
	var t domain.Topology
	splitter, err := e.doc.Object(typeZoneSplitter, zoneSplitterName(l.Name()))
	if err != nil {
		return t
	}
	suffix := domain.ZoneInletNode("").String()
	for _, node := range groupTexts(splitter) {
		t.Branches = append(t.Branches, strings.TrimSuffix(node, suffix))
	}
	return t
}

func setFields(obj *store.Object, fields [][2]string) error {
	for _, f := range fields {
		if err := obj.Set(f[0], f[1]); err != nil {
			return err
		}
	}
	return nil
}
