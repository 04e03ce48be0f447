package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showroomapp/showroom-tools/internal/roblox"
)

func TestCollectReferences(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "cars.json"))
	require.NoError(t, err)

	refs := c.CollectReferences()

	require.Len(t, refs, 2)

	// car1 and car2 share the same CarImage asset.
	require.Len(t, refs["11112222"], 2)
	keys := []string{refs["11112222"][0].RecordKey, refs["11112222"][1].RecordKey}
	assert.ElementsMatch(t, []string{"car1", "car2"}, keys)
	for _, ref := range refs["11112222"] {
		assert.Equal(t, "CarImage", ref.Field.Source)
		assert.Equal(t, "CarImageUrl", ref.Field.Target)
	}

	require.Len(t, refs["33334444"], 1)
	assert.Equal(t, "car1", refs["33334444"][0].RecordKey)
	assert.Equal(t, "RimsUrl", refs["33334444"][0].Field.Target)
}

func TestCollectReferences_SkipsUnrecognizedValues(t *testing.T) {
	c := Catalog{
		"numeric":  Record{"CarImage": 11112222},
		"plain":    Record{"CarImage": "not a reference"},
		"otherURL": Record{"Rims": "https://example.com/image.png"},
		"empty":    Record{"CarImage": ""},
		"bare":     Record{"Name": "no reference fields"},
	}

	assert.Empty(t, c.CollectReferences())
}

func TestCollectReferences_EmptyCatalog(t *testing.T) {
	assert.Empty(t, Catalog{}.CollectReferences())
}

func TestSortedAssetIDs(t *testing.T) {
	refs := map[string][]Reference{
		"9":   nil,
		"10":  nil,
		"2":   nil,
		"100": nil,
	}

	assert.Equal(t, []string{"2", "9", "10", "100"}, SortedAssetIDs(refs))
}

func TestSortedAssetIDs_Empty(t *testing.T) {
	assert.Empty(t, SortedAssetIDs(nil))
}

func TestMergeThumbnails(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "cars.json"))
	require.NoError(t, err)
	refs := c.CollectReferences()

	results := map[string]roblox.Resolution{
		"11112222": {URL: "https://tr.rbxcdn.com/abc/250/250/Image/Png", Resolved: true},
		"33334444": {}, // lookup gave up; the record must stay untouched
	}

	added := c.MergeThumbnails(refs, results)
	assert.Equal(t, 2, added)

	// The shared asset fills both records.
	assert.Equal(t, "https://tr.rbxcdn.com/abc/250/250/Image/Png", c["car1"]["CarImageUrl"])
	assert.Equal(t, "https://tr.rbxcdn.com/abc/250/250/Image/Png", c["car2"]["CarImageUrl"])

	// The failed asset adds no sibling key.
	_, ok := c["car1"]["RimsUrl"]
	assert.False(t, ok)

	// Source fields and unrelated fields pass through untouched.
	assert.Equal(t, "rbxassetid://11112222", c["car1"]["CarImage"])
	assert.Equal(t, "Solara GT", c["car1"]["Name"])
	assert.NotContains(t, c["car3"], "CarImageUrl")
}

func TestMergeThumbnails_OverwritesStaleURL(t *testing.T) {
	c := Catalog{
		"car1": Record{
			"CarImage":    "rbxassetid://11112222",
			"CarImageUrl": "https://tr.rbxcdn.com/stale/250/250/Image/Png",
		},
	}
	refs := c.CollectReferences()

	results := map[string]roblox.Resolution{
		"11112222": {URL: "https://tr.rbxcdn.com/fresh/250/250/Image/Png", Resolved: true},
	}

	added := c.MergeThumbnails(refs, results)
	assert.Equal(t, 1, added)
	assert.Equal(t, "https://tr.rbxcdn.com/fresh/250/250/Image/Png", c["car1"]["CarImageUrl"])
}

func TestMergeThumbnails_EmptyResults(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "cars.json"))
	require.NoError(t, err)
	refs := c.CollectReferences()

	added := c.MergeThumbnails(refs, map[string]roblox.Resolution{})
	assert.Equal(t, 0, added)
	assert.NotContains(t, c["car1"], "CarImageUrl")
}
