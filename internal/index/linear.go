package index

import "github.com/chartworks/s57/internal/parser"

// linearIndex answers every query with a flat scan. Chosen for small
// feature counts, where R-tree construction overhead outweighs the
// O(n) query cost.
type linearIndex struct {
	features []*parser.Feature
	bounds   Bounds
	hasBounds bool
}

func newLinearIndex(features []*parser.Feature) *linearIndex {
	idx := &linearIndex{features: features, bounds: emptyBounds}
	for _, f := range features {
		b := featureBounds(f)
		if !b.Empty() {
			idx.bounds = idx.bounds.union(b)
			idx.hasBounds = true
		}
	}
	return idx
}

func (idx *linearIndex) QueryBounds(b Bounds) []*parser.Feature {
	out := make([]*parser.Feature, 0)
	for _, f := range idx.features {
		if featureBounds(f).Intersects(b) {
			out = append(out, f)
		}
	}
	return sortByRecordID(out)
}

func (idx *linearIndex) QueryPoint(lat, lon, radiusDegrees float64) []*parser.Feature {
	out := make([]*parser.Feature, 0)
	for _, f := range idx.features {
		if withinSquare(f, lat, lon, radiusDegrees) {
			out = append(out, f)
		}
	}
	return sortByRecordID(out)
}

func (idx *linearIndex) QueryByType(objectClass string) []*parser.Feature {
	out := make([]*parser.Feature, 0)
	for _, f := range idx.features {
		if f.ObjectClass == objectClass {
			out = append(out, f)
		}
	}
	return sortByRecordID(out)
}

func (idx *linearIndex) QueryNavigationAids() []*parser.Feature {
	out := make([]*parser.Feature, 0)
	for _, f := range idx.features {
		if matchesAny(navigationAidClasses, f.ObjectClass) {
			out = append(out, f)
		}
	}
	return sortByRecordID(out)
}

func (idx *linearIndex) QueryDepthFeatures() []*parser.Feature {
	out := make([]*parser.Feature, 0)
	for _, f := range idx.features {
		if matchesAny(depthFeatureClasses, f.ObjectClass) {
			out = append(out, f)
		}
	}
	return sortByRecordID(out)
}

func (idx *linearIndex) CalculateBounds() (Bounds, bool) {
	return idx.bounds, idx.hasBounds
}

func (idx *linearIndex) FeatureCount() int { return len(idx.features) }

func (idx *linearIndex) PresentFeatureTypes() []string {
	return presentFeatureTypes(idx.features)
}

func (idx *linearIndex) GetAllFeatures() []*parser.Feature {
	return sortByRecordID(append([]*parser.Feature(nil), idx.features...))
}

func presentFeatureTypes(features []*parser.Feature) []string {
	seen := make(map[string]bool)
	for _, f := range features {
		seen[f.ObjectClass] = true
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	return out
}
