package catalog

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/showroomapp/showroom-tools/internal/roblox"
)

// ReferenceField pairs a record field that may hold an asset reference with
// the sibling field that receives the resolved image URL.
type ReferenceField struct {
	Source string
	Target string
}

// ReferenceFields are the record fields scanned for asset references.
var ReferenceFields = []ReferenceField{
	{Source: "CarImage", Target: "CarImageUrl"},
	{Source: "Rims", Target: "RimsUrl"},
}

// Reference is one (record, field) occurrence of an asset reference.
// Several records may reference the same asset.
type Reference struct {
	RecordKey string
	Field     ReferenceField
}

// CollectReferences scans every record's reference fields and groups the
// occurrences by extracted asset ID. Fields that are absent or hold no
// recognizable reference are skipped.
func (c Catalog) CollectReferences() map[string][]Reference {
	refs := make(map[string][]Reference)

	for key, record := range c {
		for _, field := range ReferenceFields {
			value, ok := record[field.Source]
			if !ok {
				continue
			}

			id, ok := roblox.ExtractAssetID(value)
			if !ok {
				continue
			}

			refs[id] = append(refs[id], Reference{RecordKey: key, Field: field})
		}
	}

	return refs
}

// SortedAssetIDs returns the referenced asset IDs in ascending numeric
// order, so batches and logs are reproducible across runs.
func SortedAssetIDs(refs map[string][]Reference) []string {
	ids := make([]string, 0, len(refs))
	for id := range refs {
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b string) int {
		na, errA := strconv.ParseUint(a, 10, 64)
		nb, errB := strconv.ParseUint(b, 10, 64)
		if errA != nil || errB != nil {
			return cmp.Compare(a, b)
		}
		return cmp.Compare(na, nb)
	})

	return ids
}

// MergeThumbnails writes resolved image URLs into the target field next to
// each reference occurrence. Assets without a resolved outcome add nothing:
// a failed lookup must not clobber a URL from an earlier run. Returns the
// number of fields written.
func (c Catalog) MergeThumbnails(refs map[string][]Reference, results map[string]roblox.Resolution) int {
	added := 0

	for id, occurrences := range refs {
		res, ok := results[id]
		if !ok || !res.Resolved {
			continue
		}

		for _, ref := range occurrences {
			record, ok := c[ref.RecordKey]
			if !ok {
				continue
			}
			record[ref.Field.Target] = res.URL
			added++
		}
	}

	return added
}
