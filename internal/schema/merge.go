package schema

import "github.com/gerhard-ee/dbtschema/internal/profile"

// MergeExcluded reinserts excluded columns at their ordinal positions, in order.
// Positions past the end append.
func MergeExcluded(columns []*profile.Column, excluded []profile.ExcludedColumn) []*profile.Column {
	merged := make([]*profile.Column, len(columns), len(columns)+len(excluded))
	copy(merged, columns)

	for _, ex := range excluded {
		col := &profile.Column{
			Name:        ex.Name,
			Description: "",
			Meta:        profile.Metadata{DataType: ex.DataType},
		}

		pos := ex.Position
		if pos < 0 {
			pos = 0
		}
		if pos >= len(merged) {
			merged = append(merged, col)
			continue
		}

		merged = append(merged, nil)
		copy(merged[pos+1:], merged[pos:])
		merged[pos] = col
	}

	return merged
}
