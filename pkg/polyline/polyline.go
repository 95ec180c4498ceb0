// Package polyline implements the Google encoded polyline algorithm at
// precision 5, used to ship track geometry over the API.
package polyline

import "math"

// Point is a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Encode renders points as an encoded polyline string.
func Encode(points []Point) string {
	if len(points) == 0 {
		return ""
	}

	out := make([]byte, 0, len(points)*4)
	var prevLat, prevLon int

	for _, p := range points {
		lat := int(math.Round(p.Lat * 1e5))
		lon := int(math.Round(p.Lon * 1e5))
		out = appendValue(out, lat-prevLat)
		out = appendValue(out, lon-prevLon)
		prevLat, prevLon = lat, lon
	}
	return string(out)
}

// Decode parses an encoded polyline back into points. A malformed tail
// is truncated rather than reported; the format carries no checksum.
func Decode(encoded string) []Point {
	var points []Point
	var lat, lon int

	i := 0
	for i < len(encoded) {
		dLat, next, ok := readValue(encoded, i)
		if !ok {
			break
		}
		dLon, after, ok := readValue(encoded, next)
		if !ok {
			break
		}
		lat += dLat
		lon += dLon
		i = after
		points = append(points, Point{Lat: float64(lat) / 1e5, Lon: float64(lon) / 1e5})
	}
	return points
}

func appendValue(buf []byte, v int) []byte {
	if v < 0 {
		v = ^(v << 1)
	} else {
		v <<= 1
	}
	for v >= 0x20 {
		buf = append(buf, byte(0x20|(v&0x1f))+63)
		v >>= 5
	}
	return append(buf, byte(v)+63)
}

func readValue(s string, i int) (value, next int, ok bool) {
	var result, shift int
	for i < len(s) {
		b := int(s[i]) - 63
		i++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			if result&1 != 0 {
				return ^(result >> 1), i, true
			}
			return result >> 1, i, true
		}
	}
	return 0, i, false
}
