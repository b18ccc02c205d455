package topology

import (
	"testing"

	"loopwright/internal/domain"
	"loopwright/internal/schema"
	"loopwright/internal/store"

	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T) *store.Document {
	t.Helper()
	return store.NewDocument(schema.Builtin())
}

func newComponent(t *testing.T, doc *store.Document, typeName, name string) *store.Object {
	t.Helper()
	obj, err := doc.NewObject(typeName, name)
	require.NoError(t, err)
	return obj
}

func field(t *testing.T, obj *store.Object, name string) string {
	t.Helper()
	v, err := obj.Get(name)
	require.NoError(t, err)
	require.False(t, v.IsPending(), "%s %s is still pending", obj, name)
	return v.Text()
}

func plantTopologies() (domain.Topology, domain.Topology) {
	supply := domain.NewTopology("s_in", []string{"boiler", "bypass"}, "s_out")
	demand := domain.NewTopology("d_in", []string{"zone1", "zone2"}, "d_out")
	return supply, demand
}
