package domain

// Region is an inclusive latitude/longitude bounding box.
type Region struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// NorthAmerica is the default watch region: 7°N to 83°N, 167°W to 52.5°W.
var NorthAmerica = Region{MinLat: 7.0, MaxLat: 83.0, MinLon: -167.0, MaxLon: -52.5}

// Contains reports whether the event's coordinates fall inside the box.
// Both bounds are inclusive.
func (r Region) Contains(e Event) bool {
	return e.Latitude >= r.MinLat && e.Latitude <= r.MaxLat &&
		e.Longitude >= r.MinLon && e.Longitude <= r.MaxLon
}

// Valid reports whether the box is well-formed (min <= max on both axes).
func (r Region) Valid() bool {
	return r.MinLat <= r.MaxLat && r.MinLon <= r.MaxLon
}
