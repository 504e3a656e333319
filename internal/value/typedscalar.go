package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// NewDate, NewDateTime, NewTime, NewDuration and NewURI wrap a lexical form
// in the corresponding typed-scalar tag without any further validation
// (spec.md §3.1). internal/dsl does not check these lexical forms either;
// an ill-formed date, dateTime, time or duration is reported as a ParseValue
// error by Compare when the value is compared.
func NewDate(lexical string) Value     { return Value{Kind: TypedScalar, Tag: TagDate, S: lexical} }
func NewDateTime(lexical string) Value { return Value{Kind: TypedScalar, Tag: TagDateTime, S: lexical} }
func NewTime(lexical string) Value     { return Value{Kind: TypedScalar, Tag: TagTime, S: lexical} }
func NewDuration(lexical string) Value { return Value{Kind: TypedScalar, Tag: TagDuration, S: lexical} }
func NewURI(lexical string) Value      { return Value{Kind: TypedScalar, Tag: TagURI, S: lexical} }

// NewCurrency builds a currency typed scalar. code must already be a
// validated 3-letter code (spec.md §4.1); this constructor only rejects it
// defensively.
func NewCurrency(amount, code string) (Value, error) {
	if len(code) != 3 {
		return Value{}, fmt.Errorf("currency code must be exactly 3 letters, got %q", code)
	}
	return Value{Kind: TypedScalar, Tag: TagCurrency, S: amount, Aux: code}, nil
}

// NewUnit builds a unit typed scalar carrying an amount and a unit URI.
func NewUnit(amount, unitURI string) Value {
	return Value{Kind: TypedScalar, Tag: TagUnit, S: amount, Aux: unitURI}
}

// NewGeoLocation parses a "lat,lon" lexical form into a geolocation typed
// scalar. Each component must parse as a float (spec.md §4.1: "GeoLocation
// must contain exactly two comma-separated numeric components"); the pair is
// then converted through github.com/golang/geo/s2's LatLngFromDegrees and
// back to degrees, and stored in the value's Lat/Lon fields. No range check
// is made on either component.
func NewGeoLocation(lexical string) (Value, error) {
	parts := strings.Split(lexical, ",")
	if len(parts) != 2 {
		return Value{}, fmt.Errorf("geolocation must contain exactly two comma-separated components, got %q", lexical)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid geolocation latitude %q: %w", parts[0], err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid geolocation longitude %q: %w", parts[1], err)
	}
	ll := s2.LatLngFromDegrees(lat, lon)
	return Value{
		Kind: TypedScalar,
		Tag:  TagGeoLocation,
		Lat:  ll.Lat.Degrees(),
		Lon:  ll.Lng.Degrees(),
	}, nil
}
