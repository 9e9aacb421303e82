// Package domain models USGS earthquake feed data and the pure logic the
// watcher loop is built from: event rendering and fingerprinting, the query
// window, chronological ordering, the geographic region predicate, and the
// feed error taxonomy.
//
// # Data Source
//
// Events originate from the USGS FDSN event web service
// (https://earthquake.usgs.gov/fdsnws/event/1/query) queried with
// format=geojson over a sliding starttime/endtime window. Each GeoJSON
// feature carries properties.mag (magnitude), properties.place (free-text
// locality, e.g. "12 km SSW of Julian, CA"), properties.time (epoch
// milliseconds) and geometry.coordinates as [longitude, latitude, depth-km],
// in that order.
//
// # Rendering
//
// Events render as one line per observation:
//
//	<ISO-8601 instant>: Magnitude <mag %.1f> at <place> (<lat %.4f>, <lon %.4f>)
//
// The rendered line is both the console output format and the input to
// fingerprinting.
//
// # Fingerprints
//
// The feed rows consumed here carry no stable per-event identifier, so the
// fingerprint is a short SHA-256 of the rendered line. Two distinct
// observations that round to the same magnitude, place, and 4-decimal
// coordinates therefore collide and are reported once. Callers that need
// collision-free identity must source an ID from the feed instead.
//
// # Region classification
//
// A Region is an inclusive latitude/longitude bounding box. The default box
// covers North America: 7°N to 83°N, 167°W to 52.5°W. Classification is a
// pure per-event predicate; it carries no state across cycles.
package domain
