package parser

import "fmt"

// ValidateCoordinate checks a coordinate pair against geographic bounds.
func ValidateCoordinate(lat, lon float64) error {
	if lat < -90.0 || lat > 90.0 {
		return &ErrInvalidCoordinate{Lat: lat, Lon: lon}
	}
	if lon < -180.0 || lon > 180.0 {
		return &ErrInvalidCoordinate{Lat: lat, Lon: lon}
	}
	return nil
}

// ValidateGeometry checks a Geometry's coordinate shape and bounds.
// Empty coordinate sets are valid — meta-features (PRIM=255) like
// C_AGGR/M_COVR legitimately carry no spatial representation.
//
// Reference: S-57 §7.3.
func ValidateGeometry(geometry *Geometry) error {
	if geometry == nil {
		return &ErrInvalidGeometry{Reason: "geometry is nil"}
	}
	if len(geometry.Coordinates) == 0 {
		return nil
	}

	for i, coord := range geometry.Coordinates {
		if len(coord) < 2 || len(coord) > 3 {
			return &ErrInvalidGeometry{
				Type:   geometry.Type,
				Reason: fmt.Sprintf("coordinate %d must have 2 or 3 values [lon, lat] or [lon, lat, depth], got %d", i, len(coord)),
			}
		}
		lon, lat := coord[0], coord[1]
		if err := ValidateCoordinate(lat, lon); err != nil {
			return &ErrInvalidGeometry{
				Type:   geometry.Type,
				Reason: fmt.Sprintf("coordinate %d invalid: %v", i, err),
			}
		}
	}

	return nil
}

// ValidateFeature checks a Feature's object class and geometry.
func ValidateFeature(feature *Feature) error {
	if feature == nil {
		return fmt.Errorf("feature is nil")
	}
	if feature.ObjectClass == "" {
		return fmt.Errorf("feature has empty object class")
	}
	if err := ValidateGeometry(&feature.Geometry); err != nil {
		return fmt.Errorf("feature %v: %w", feature.ID, err)
	}
	return nil
}
