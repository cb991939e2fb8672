package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Len(t, c.Packages, 2)
	require.Len(t, c.Extras, 5)

	a := c.PackageByID("A")
	require.NotNil(t, a)
	assert.Equal(t, int64(11000), a.PriceCents)

	b := c.PackageByID("B")
	require.NotNil(t, b)
	assert.Equal(t, int64(18000), b.PriceCents)

	assert.Nil(t, c.PackageByID("C"))

	// the double face dres carries the coach coordination note
	var noted int
	for _, inc := range a.Includes {
		if inc.CoachNote {
			noted++
			assert.Contains(t, inc.Label, "double face dres")
		}
	}
	assert.Equal(t, 1, noted)
}

func TestExtraSizes(t *testing.T) {
	c := Default()

	shirts := c.ExtraByID("E_SHIRTS")
	require.NotNil(t, shirts)
	assert.True(t, shirts.HasSizes())
	assert.True(t, shirts.ValidSize("M"))
	assert.False(t, shirts.ValidSize("4XL"))
	assert.False(t, shirts.ValidSize(""))

	backpack := c.ExtraByID("E_BACKPACK")
	require.NotNil(t, backpack)
	assert.False(t, backpack.HasSizes())

	assert.Nil(t, c.ExtraByID("E_NOPE"))
}

func TestPackageSizeLists(t *testing.T) {
	c := Default()
	// jersey list has the extra 4XL entry
	assert.True(t, c.ValidJerseySize("4XL"))
	assert.False(t, c.ValidShirtSize("4XL"))
	assert.False(t, c.ValidHoodieSize("4XL"))
	assert.True(t, c.ValidShirtSize("110cm"))
	assert.False(t, c.ValidJerseySize(""))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	doc := `{
		"packages": [{"id": "X", "name": "Test paket", "priceCents": 5000, "includes": [{"label": "1 majica"}]}],
		"extras": [{"id": "E1", "label": "Kapa", "priceCents": 900}],
		"jerseySizes": ["S"], "shirtSizes": ["S"], "hoodieSizes": ["S"]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, c.PackageByID("X"))
	assert.Equal(t, int64(900), c.ExtraByID("E1").PriceCents)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"packages": []}`), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}
