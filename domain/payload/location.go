package payload

import (
	"math"
	"strconv"

	"github.com/prasetyowira/qr-utils/domain/qrerr"
)

// LocationRequest points at a coordinate, optionally labelled.
type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Query     string  `json:"query,omitempty"`
}

func (r LocationRequest) Kind() Kind { return KindLocation }

// Format builds a geo: URI. Coordinates use the shortest decimal form that
// round-trips, so -74.0060 prints as -74.006.
func (r LocationRequest) Format() (string, error) {
	if math.IsNaN(r.Latitude) || r.Latitude < -90 || r.Latitude > 90 {
		return "", qrerr.Validation(string(KindLocation), "latitude %v out of range [-90, 90]", r.Latitude)
	}
	if math.IsNaN(r.Longitude) || r.Longitude < -180 || r.Longitude > 180 {
		return "", qrerr.Validation(string(KindLocation), "longitude %v out of range [-180, 180]", r.Longitude)
	}

	coords := formatCoordinate(r.Latitude) + "," + formatCoordinate(r.Longitude)
	geo := "geo:" + coords
	if r.Query != "" {
		geo += "?q=" + coords + "(" + PercentEncode(r.Query) + ")"
	}
	return geo, nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
