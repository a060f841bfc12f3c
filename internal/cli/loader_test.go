package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/grifola/internal/geom"
	"github.com/roach88/grifola/internal/harness"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ListUnique(t *testing.T) {
	path := writeScenario(t, `
scenario: {
	name: "witness"
	app:  "list_unique"
	ints: [0, 1, 2, 3]
	mutations: [{index: 1, value: 9}]
}
`)

	sc, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "witness", sc.Name)
	assert.Equal(t, harness.AppListUnique, sc.App)
	assert.Equal(t, []int{0, 1, 2, 3}, sc.Ints)
	require.Len(t, sc.Mutations, 1)
	assert.Equal(t, 1, sc.Mutations[0].Index)
	assert.Equal(t, 9, sc.Mutations[0].Value)
}

func TestLoadScenario_QuickHullPoints(t *testing.T) {
	path := writeScenario(t, `
scenario: {
	name: "hull"
	app:  "quickhull"
	cloud_a: [{x: 1.0, y: 1.0}, {x: 2.0, y: 2.0}, {x: 1.5, y: 3.0}]
}
`)

	sc, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, harness.AppQuickHull, sc.App)
	assert.Equal(t, []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 1.5, Y: 3}}, sc.CloudA)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.cue"))
	assert.Error(t, err)
}

func TestLoadScenario_NoScenarioStruct(t *testing.T) {
	path := writeScenario(t, `other: {name: "x"}`)
	_, err := LoadScenario(path)
	assert.ErrorContains(t, err, "scenario")
}

func TestLoadScenario_BadCUE(t *testing.T) {
	path := writeScenario(t, `scenario: {name: `)
	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestLoadScenario_UnknownApp(t *testing.T) {
	path := writeScenario(t, `
scenario: {
	name: "x"
	app:  "frobnicate"
}
`)
	_, err := LoadScenario(path)
	assert.ErrorContains(t, err, "unknown app")
}

func TestLoadScenario_MissingName(t *testing.T) {
	path := writeScenario(t, `
scenario: {
	app: "list_unique"
}
`)
	_, err := LoadScenario(path)
	assert.ErrorContains(t, err, "missing name")
}
