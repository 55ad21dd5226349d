package ignite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestDumpBuildsNestedTreeFromDotSeparatedNames(t *testing.T) {
	reg := NewRegistry(Info)
	reg.SetThreshold("svc", Debug)
	reg.SetThreshold("svc.http", Warning)
	reg.GetLogger("svc.http").AddSink(&recordingSink{name: "httplog"})

	root := reg.Dump()
	assert.Equal(t, "", root.Name)
	require.Len(t, root.Children, 1)

	svc := root.Children[0]
	assert.Equal(t, "svc", svc.Name)
	assert.True(t, svc.Explicit)
	assert.Equal(t, "debug", svc.Threshold)
	require.Len(t, svc.Children, 1)

	httpChild := svc.Children[0]
	assert.Equal(t, "svc.http", httpChild.Name)
	assert.Equal(t, "warning", httpChild.Threshold)
	assert.Equal(t, []string{"httplog"}, httpChild.Sinks)
}

func TestDumpChildrenAreSortedByName(t *testing.T) {
	reg := NewRegistry(Info)
	reg.SetThreshold("svc.z", Debug)
	reg.SetThreshold("svc.a", Debug)
	reg.SetThreshold("svc.m", Debug)

	svc := reg.Dump().Children[0]
	require.Len(t, svc.Children, 3)
	assert.Equal(t, []string{"svc.a", "svc.m", "svc.z"}, []string{
		svc.Children[0].Name, svc.Children[1].Name, svc.Children[2].Name,
	})
}

func TestDumpRootOnlyRegistryHasNoChildren(t *testing.T) {
	reg := NewRegistry(Info)
	root := reg.Dump()
	assert.Equal(t, "info", root.Threshold)
	assert.Empty(t, root.Children)
}

func TestDumpYAMLRoundTripsThroughYAMLMarshal(t *testing.T) {
	reg := NewRegistry(Info)
	reg.SetThreshold("svc", Warning)

	out, err := reg.DumpYAML()
	require.NoError(t, err)
	assert.Contains(t, out, "name: svc")
	assert.Contains(t, out, "threshold: warning")

	var decoded LoggerSnapshot
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "", decoded.Name)
	require.Len(t, decoded.Children, 1)
	assert.Equal(t, "svc", decoded.Children[0].Name)
}
