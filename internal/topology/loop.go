package topology

import (
	"errors"
	"fmt"
	"strings"

	"loopwright/internal/domain"
	"loopwright/internal/store"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// BuildStage is the progress of a loop through construction
type BuildStage int

const (
	StageCreated BuildStage = iota
	StageBranchListsAllocated
	StageSupplyBranchesBuilt
	StageDemandBranchesBuilt
	StageEndpointsBound
	StageSupplyConnectorListBuilt
	StageDemandConnectorListBuilt
	StageSplittersMixersBuilt
)

var stageNames = [...]string{
	"created",
	"branch_lists_allocated",
	"supply_branches_built",
	"demand_branches_built",
	"endpoints_bound",
	"supply_connector_list_built",
	"demand_connector_list_built",
	"splitters_mixers_built",
}

func (s BuildStage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Loop is a handle on a loop object and the lists it owns. Demand-side
// handles are nil for variants that have no such list.
type Loop struct {
	Spec   *domain.LoopSpec
	Object *store.Object

	SupplyBranchList *store.Object
	DemandBranchList *store.Object
	SupplyConnectors *store.Object
	DemandConnectors *store.Object

	Supply domain.Topology
	Demand domain.Topology
	Stage  BuildStage
}

// Name returns the loop name
func (l *Loop) Name() string {
	return l.Object.Name()
}

// Variant returns the loop variant
func (l *Loop) Variant() domain.Variant {
	return l.Spec.Variant
}

// Node returns the value of one of the loop's own node fields
func (l *Loop) Node(field string) domain.NodeID {
	if field == "" {
		return ""
	}
	v, err := l.Object.Get(field)
	if err != nil {
		return ""
	}
	return v.Node()
}

type hookFunc func(*Engine, *Loop) error

// variantHooks are the construction steps that differ between loop variants
type variantHooks struct {
	demandBranches   hookFunc
	bindEndpoints    hookFunc
	demandConnectors hookFunc
	splittersMixers  hookFunc
}

var pipeHooks = variantHooks{
	demandBranches:   (*Engine).buildDemandPipes,
	bindEndpoints:    (*Engine).bindEndpoints,
	demandConnectors: (*Engine).buildDemandConnectors,
	splittersMixers:  (*Engine).buildSplittersMixers,
}

var airHooks = variantHooks{
	demandBranches:   (*Engine).buildZoneEquipment,
	bindEndpoints:    func(*Engine, *Loop) error { return nil },
	demandConnectors: func(*Engine, *Loop) error { return nil },
	splittersMixers:  (*Engine).buildZonePaths,
}

func hooksFor(v domain.Variant) variantHooks {
	if v == domain.VariantAir {
		return airHooks
	}
	return pipeHooks
}

// BuildLoop creates a complete loop of the given variant. Each topology is
// an inlet branch, the parallel branches and an outlet branch; on the demand
// side of an air loop the parallel branches are zone names. A failed build
// leaves the document partially built.
func (e *Engine) BuildLoop(variant domain.Variant, name string, supply, demand domain.Topology) (*Loop, error) {
	spec, err := domain.SpecFor(variant)
	if err != nil {
		return nil, err
	}
	if err := checkTopologies(spec, supply, demand); err != nil {
		return nil, err
	}

	obj, err := e.doc.NewObject(spec.ObjectType, name)
	if err != nil {
		return nil, fmt.Errorf("build %s %q: %w", variant, name, err)
	}
	for field, value := range spec.GeneratedFieldValues(name) {
		if err := obj.Set(field, value); err != nil {
			return nil, fmt.Errorf("build %s %q: %w", variant, name, err)
		}
	}
	l := &Loop{Spec: spec, Object: obj, Supply: supply, Demand: demand, Stage: StageCreated}

	h := hooksFor(variant)
	steps := []struct {
		stage BuildStage
		run   hookFunc
	}{
		{StageBranchListsAllocated, (*Engine).allocateBranchLists},
		{StageSupplyBranchesBuilt, (*Engine).buildSupplyBranches},
		{StageDemandBranchesBuilt, h.demandBranches},
		{StageEndpointsBound, h.bindEndpoints},
		{StageSupplyConnectorListBuilt, (*Engine).buildSupplyConnectors},
		{StageDemandConnectorListBuilt, h.demandConnectors},
		{StageSplittersMixersBuilt, h.splittersMixers},
	}
	for _, step := range steps {
		if err := step.run(e, l); err != nil {
			return nil, fmt.Errorf("build %s %q: %s: %w", variant, name, step.stage, err)
		}
		l.Stage = step.stage
		e.log.Debug("loop stage complete",
			zap.String("loop", name),
			zap.String("variant", string(variant)),
			zap.Stringer("stage", step.stage),
		)
	}

	e.log.Info("loop built",
		zap.String("loop", name),
		zap.String("variant", string(variant)),
		zap.Int("supply_branches", len(supply.Flatten())),
		zap.Int("demand_branches", len(demand.Branches)),
	)
	return l, nil
}

// checkTopologies rejects topologies that would make two branches share a name
func checkTopologies(spec *domain.LoopSpec, supply, demand domain.Topology) error {
	sides := []struct {
		name     string
		topology domain.Topology
	}{{"supply", supply}, {"demand", demand}}
	for _, side := range sides {
		if err := validate.Struct(side.topology); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				return &StructureError{Op: "build loop", Reason: fmt.Sprintf("%s topology: %s", side.name, verrs.Error())}
			}
			return err
		}
	}

	seen := make(map[string]string)
	check := func(side string, t domain.Topology) error {
		for _, name := range t.Flatten() {
			if prev, dup := seen[name]; dup {
				return &StructureError{
					Op:     "build loop",
					Reason: fmt.Sprintf("branch %q appears on the %s side and the %s side", name, prev, side),
				}
			}
			seen[name] = side
		}
		return nil
	}
	if err := check("supply", supply); err != nil {
		return err
	}
	if spec.DemandPipes {
		return check("demand", demand)
	}
	return nil
}

func (e *Engine) allocateBranchLists(l *Loop) error {
	list, err := e.newListObject(l, typeBranchList, l.Spec.SupplyBranchList)
	if err != nil {
		return err
	}
	l.SupplyBranchList = list
	if l.Spec.DemandBranchList == "" {
		return nil
	}
	list, err = e.newListObject(l, typeBranchList, l.Spec.DemandBranchList)
	if err != nil {
		return err
	}
	l.DemandBranchList = list
	return nil
}

// newListObject creates a list object named by the value of one of the loop's fields
func (e *Engine) newListObject(l *Loop, typeName, loopField string) (*store.Object, error) {
	name, err := l.Object.GetString(loopField)
	if err != nil {
		return nil, err
	}
	return e.doc.NewObject(typeName, name)
}

func (e *Engine) buildSupplyBranches(l *Loop) error {
	if l.SupplyBranchList == nil {
		return &StructureError{Op: "build supply branches", Reason: "supply branch list not allocated"}
	}
	return e.buildPlaceholderBranches(l.SupplyBranchList, l.Supply)
}

func (e *Engine) buildDemandPipes(l *Loop) error {
	if l.DemandBranchList == nil {
		return &StructureError{Op: "build demand branches", Reason: "demand branch list not allocated"}
	}
	return e.buildPlaceholderBranches(l.DemandBranchList, l.Demand)
}

func (e *Engine) buildPlaceholderBranches(list *store.Object, t domain.Topology) error {
	for _, name := range t.Flatten() {
		if err := list.AppendGroup(name); err != nil {
			return err
		}
		if _, err := placeholderBranch(e.doc, name); err != nil {
			return err
		}
	}
	return nil
}

// bindEndpoints renames the outer ports of each side to the loop's own
// inlet and outlet nodes.
func (e *Engine) bindEndpoints(l *Loop) error {
	sides := []struct {
		topology      domain.Topology
		inlet, outlet string
	}{
		{l.Supply, l.Spec.SupplyInlet, l.Spec.SupplyOutlet},
		{l.Demand, l.Spec.DemandInlet, l.Spec.DemandOutlet},
	}
	for _, side := range sides {
		if err := e.stageBranchEnd(side.topology.Inlet, domain.RoleInlet, l.Node(side.inlet)); err != nil {
			return err
		}
		if err := e.stageBranchEnd(side.topology.Outlet, domain.RoleOutlet, l.Node(side.outlet)); err != nil {
			return err
		}
	}
	_, err := e.Propagate()
	return err
}

// stageBranchEnd stages a rename of the first component's inlet or the last
// component's outlet of a branch.
func (e *Engine) stageBranchEnd(branchName string, role domain.Role, node domain.NodeID) error {
	branch, err := e.doc.Object(typeBranch, branchName)
	if err != nil {
		return err
	}
	comps, err := BranchComponents(e.doc, branch)
	if err != nil {
		return err
	}
	if len(comps) == 0 {
		return &StructureError{Op: "bind endpoints", Reason: fmt.Sprintf("branch %q has no components", branchName)}
	}
	comp := comps[0]
	if role == domain.RoleOutlet {
		comp = comps[len(comps)-1]
	}
	return stagePort(ComponentRef{Object: comp}, role, domain.FluidNone, node)
}

func stagePort(ref ComponentRef, role domain.Role, fluid domain.Fluid, node domain.NodeID) error {
	field, err := ResolvePort(ref.Object, role, fluid, ref.PortHint)
	if err != nil {
		return err
	}
	return ref.Object.Stage(field, node)
}

func (e *Engine) buildSupplyConnectors(l *Loop) error {
	list, err := e.newConnectorList(l, l.Spec.SupplyConnectorList, "supply")
	if err != nil {
		return err
	}
	l.SupplyConnectors = list
	return nil
}

func (e *Engine) buildDemandConnectors(l *Loop) error {
	list, err := e.newConnectorList(l, l.Spec.DemandConnectorList, "demand")
	if err != nil {
		return err
	}
	l.DemandConnectors = list
	return nil
}

// newConnectorList creates a connector list holding a splitter slot and a mixer slot
func (e *Engine) newConnectorList(l *Loop, loopField, side string) (*store.Object, error) {
	list, err := e.newListObject(l, typeConnectorList, loopField)
	if err != nil {
		return nil, err
	}
	if err := list.AppendGroup(typeSplitter, fmt.Sprintf("%s_%s_splitter", l.Name(), side)); err != nil {
		return nil, err
	}
	if err := list.AppendGroup(typeMixer, fmt.Sprintf("%s_%s_mixer", l.Name(), side)); err != nil {
		return nil, err
	}
	return list, nil
}

func (e *Engine) buildSplittersMixers(l *Loop) error {
	sides := []struct {
		list     *store.Object
		topology domain.Topology
	}{
		{l.SupplyConnectors, l.Supply},
		{l.DemandConnectors, l.Demand},
	}
	for _, side := range sides {
		if side.list == nil {
			return &StructureError{Op: "build splitters and mixers", Reason: "connector list not built"}
		}
		for _, slot := range connectorSlots(side.list) {
			var err error
			switch {
			case strings.EqualFold(slot.Type, typeSplitter):
				err = e.newConnector(slot, fieldInletBranch, side.topology.Inlet, side.topology.Branches)
			case strings.EqualFold(slot.Type, typeMixer):
				err = e.newConnector(slot, fieldOutletBranch, side.topology.Outlet, side.topology.Branches)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// newConnector creates a splitter or mixer with its main branch and peer branches
func (e *Engine) newConnector(slot connectorSlot, mainField, main string, peers []string) error {
	obj, err := e.doc.NewObject(slot.Type, slot.Name)
	if err != nil {
		return err
	}
	if err := obj.Set(mainField, main); err != nil {
		return err
	}
	for _, peer := range peers {
		if err := obj.AppendGroup(peer); err != nil {
			return err
		}
	}
	return nil
}

type connectorSlot struct {
	Type string
	Name string
}

// connectorSlots lists the (type, name) slots of a connector list up to the first blank type
func connectorSlots(list *store.Object) []connectorSlot {
	var slots []connectorSlot
	for _, g := range list.Groups() {
		if g.Text(0) == "" {
			break
		}
		slots = append(slots, connectorSlot{Type: g.Text(0), Name: g.Text(1)})
	}
	return slots
}

// OpenLoop returns a handle on a loop already present in the document, such
// as one decoded from a file or restored from a snapshot.
func (e *Engine) OpenLoop(variant domain.Variant, name string) (*Loop, error) {
	spec, err := domain.SpecFor(variant)
	if err != nil {
		return nil, err
	}
	obj, err := e.doc.Object(spec.ObjectType, name)
	if err != nil {
		return nil, err
	}
	l := &Loop{Spec: spec, Object: obj, Stage: StageSplittersMixersBuilt}

	lookups := []struct {
		dst      **store.Object
		typeName string
		field    string
	}{
		{&l.SupplyBranchList, typeBranchList, spec.SupplyBranchList},
		{&l.DemandBranchList, typeBranchList, spec.DemandBranchList},
		{&l.SupplyConnectors, typeConnectorList, spec.SupplyConnectorList},
		{&l.DemandConnectors, typeConnectorList, spec.DemandConnectorList},
	}
	for _, lk := range lookups {
		if lk.field == "" {
			continue
		}
		listName, err := obj.GetString(lk.field)
		if err != nil {
			return nil, err
		}
		list, err := e.doc.Object(lk.typeName, listName)
		if err != nil {
			return nil, fmt.Errorf("open %s %q: %w", variant, name, err)
		}
		*lk.dst = list
	}

	l.Supply = e.readTopology(l.SupplyConnectors, l.SupplyBranchList)
	if spec.DemandPipes {
		l.Demand = e.readTopology(l.DemandConnectors, l.DemandBranchList)
	} else {
		l.Demand = e.readZones(l)
	}
	return l, nil
}

// readTopology recovers a side's topology from its splitter and mixer,
// falling back to the branch list order when they are absent.
func (e *Engine) readTopology(connectors, branches *store.Object) domain.Topology {
	var t domain.Topology
	if connectors != nil {
		for _, slot := range connectorSlots(connectors) {
			obj, err := e.doc.Object(slot.Type, slot.Name)
			if err != nil {
				continue
			}
			switch {
			case strings.EqualFold(slot.Type, typeSplitter):
				t.Inlet, _ = obj.GetString(fieldInletBranch)
				t.Branches = groupTexts(obj)
			case strings.EqualFold(slot.Type, typeMixer):
				t.Outlet, _ = obj.GetString(fieldOutletBranch)
			}
		}
	}
	if t.Inlet != "" || branches == nil {
		return t
	}
	names := groupTexts(branches)
	if len(names) < 2 {
		return domain.Topology{Branches: names}
	}
	return domain.NewTopology(names[0], names[1:len(names)-1], names[len(names)-1])
}

func groupTexts(obj *store.Object) []string {
	var texts []string
	for _, g := range obj.Groups() {
		texts = append(texts, g.Text(0))
	}
	return texts
}
