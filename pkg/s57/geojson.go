package s57

// GeoJSONFeatureCollection is a minimal GeoJSON FeatureCollection,
// produced by ToGeoJSON for consumption by web mapping clients.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// GeoJSONFeature is a single GeoJSON Feature.
type GeoJSONFeature struct {
	Type       string                 `json:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// GeoJSONGeometry is a single GeoJSON geometry object. Coordinates follow
// the RFC 7946 nesting for the three types this package produces: a
// single [lon, lat(, depth)] tuple for Point, a list of tuples for
// LineString, and a list of one ring (a list of tuples) for Polygon.
type GeoJSONGeometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// ToGeoJSON converts the dataset's features to a GeoJSON
// FeatureCollection. SOUNDG points retain their third (depth) coordinate
// per RFC 7946 §3.1.1, which permits an optional altitude/elevation
// member.
func (d *ParsedDataset) ToGeoJSON() GeoJSONFeatureCollection {
	return featuresToGeoJSON(d.Features())
}

// ToGeoJSON converts a single query result slice to a GeoJSON
// FeatureCollection, for callers rendering the result of a spatial query
// rather than the whole dataset.
func ToGeoJSON(features []Feature) GeoJSONFeatureCollection {
	return featuresToGeoJSON(features)
}

func featuresToGeoJSON(features []Feature) GeoJSONFeatureCollection {
	out := make([]GeoJSONFeature, len(features))
	for i, f := range features {
		out[i] = featureToGeoJSON(f)
	}
	return GeoJSONFeatureCollection{Type: "FeatureCollection", Features: out}
}

func featureToGeoJSON(f Feature) GeoJSONFeature {
	props := make(map[string]interface{}, len(f.Attributes)+2)
	for k, v := range f.Attributes {
		props[k] = v
	}
	props["objectClass"] = f.ObjectClass
	if f.Label != "" {
		props["label"] = f.Label
	}

	return GeoJSONFeature{
		Type:       "Feature",
		Geometry:   toGeoJSONGeometry(f.Geometry),
		Properties: props,
	}
}

func toGeoJSONGeometry(g Geometry) GeoJSONGeometry {
	switch g.Type {
	case "Point":
		if len(g.Coordinates) == 0 {
			return GeoJSONGeometry{Type: "Point", Coordinates: []float64{}}
		}
		return GeoJSONGeometry{Type: "Point", Coordinates: g.Coordinates[0]}
	case "LineString":
		return GeoJSONGeometry{Type: "LineString", Coordinates: g.Coordinates}
	case "Polygon":
		return GeoJSONGeometry{Type: "Polygon", Coordinates: [][][]float64{g.Coordinates}}
	default:
		return GeoJSONGeometry{Type: g.Type, Coordinates: g.Coordinates}
	}
}
