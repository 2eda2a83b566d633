package trait_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zycke/star-mercs/internal/game/trait"
)

// TestParseID_RoundTrip: every valid ID parses back from its String().
func TestParseID_RoundTrip(t *testing.T) {
	for id := trait.Flying; id <= trait.Amphibious; id++ {
		parsed, err := trait.ParseID(id.String())
		require.NoError(t, err, "ParseID(%q)", id.String())
		assert.Equal(t, id, parsed)
	}
}

// TestParseID_Unknown: unrecognized names return Unknown and an error.
func TestParseID_Unknown(t *testing.T) {
	id, err := trait.ParseID("warp-drive")
	assert.Error(t, err)
	assert.Equal(t, trait.Unknown, id)
}

// TestSet_ActiveGating: effects gate on the active flag, not bare presence.
func TestSet_ActiveGating(t *testing.T) {
	s := trait.NewSet(
		trait.Trait{ID: trait.Armored, Value: 2, Active: true},
		trait.Trait{ID: trait.Entrenched, Active: false},
	)

	assert.True(t, s.Has(trait.Entrenched), "inactive trait is still present")
	assert.False(t, s.HasActive(trait.Entrenched), "inactive trait has no effect")
	assert.True(t, s.HasActive(trait.Armored))
	assert.Equal(t, 2, s.ActiveValue(trait.Armored))

	require.NoError(t, s.SetActive(trait.Armored, false))
	assert.Equal(t, 0, s.ActiveValue(trait.Armored), "deactivated trait contributes 0")

	require.NoError(t, s.SetActive(trait.Entrenched, true))
	assert.True(t, s.HasActive(trait.Entrenched))
}

// TestSet_SetActive_Missing: toggling an absent trait errors.
func TestSet_SetActive_Missing(t *testing.T) {
	s := trait.NewSet()
	assert.Error(t, s.SetActive(trait.Flying, true))
}

// TestSet_AddRemove verifies Add replaces and Remove deletes.
func TestSet_AddRemove(t *testing.T) {
	s := trait.NewSet()
	require.NoError(t, s.Add(trait.Trait{ID: trait.Armored, Value: 1, Active: true}))
	require.NoError(t, s.Add(trait.Trait{ID: trait.Armored, Value: 3, Active: true}))
	assert.Equal(t, 3, s.ActiveValue(trait.Armored), "Add replaces existing trait")

	s.Remove(trait.Armored)
	assert.False(t, s.Has(trait.Armored))

	assert.Error(t, s.Add(trait.Trait{ID: trait.Unknown}))
}

// TestLoadDirectory parses YAML defs keyed by file name.
func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	data := "name: Flying\ndescription: Airborne unit.\nparameterized: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flying.yaml"), []byte(data), 0o644))

	reg, err := trait.LoadDirectory(dir)
	require.NoError(t, err)
	def, ok := reg.Get(trait.Flying)
	require.True(t, ok)
	assert.Equal(t, "Flying", def.Name)
}

// TestLoadDirectory_UnknownFile: a file naming no known trait fails the load.
func TestLoadDirectory_UnknownFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cloaking.yaml"), []byte("name: Cloak\n"), 0o644))

	_, err := trait.LoadDirectory(dir)
	assert.Error(t, err)
}
