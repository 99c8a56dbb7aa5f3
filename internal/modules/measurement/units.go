package measurement

import (
	"github.com/rpgo/mathgen/internal/domain"
	"github.com/rpgo/mathgen/pkg/number"
)

func unit(name, plural, symbol string, p, q int64) domain.UnitScale {
	return domain.UnitScale{
		Unit:  domain.Unit{Name: name, Plural: plural, Symbol: symbol},
		Scale: number.MustRational(p, q),
	}
}

// dimensionTables holds the built-in unit data, canonical unit first
var dimensionTables = map[string][]domain.UnitScale{
	"length": {
		unit("meter", "meters", "m", 1, 1),
		unit("kilometer", "kilometers", "km", 1000, 1),
		unit("centimeter", "centimeters", "cm", 1, 100),
		unit("millimeter", "millimeters", "mm", 1, 1000),
		unit("micrometer", "micrometers", "um", 1, 1000000),
		unit("nanometer", "nanometers", "nm", 1, 1000000000),
	},
	"time": {
		unit("second", "seconds", "s", 1, 1),
		unit("minute", "minutes", "", 60, 1),
		unit("hour", "hours", "", 60*60, 1),
		unit("day", "days", "", 24*60*60, 1),
		unit("week", "weeks", "", 7*24*60*60, 1),
		unit("millisecond", "milliseconds", "ms", 1, 1000),
		unit("microsecond", "microseconds", "us", 1, 1000000),
		unit("nanosecond", "nanoseconds", "ns", 1, 1000000000),
	},
	"calendar-time": {
		unit("year", "years", "", 1, 1),
		unit("decade", "decades", "", 10, 1),
		unit("century", "centuries", "", 100, 1),
		unit("millennium", "millennia", "", 1000, 1),
		unit("month", "months", "", 1, 12),
	},
	"mass": {
		unit("kilogram", "kilograms", "kg", 1, 1),
		unit("tonne", "tonnes", "t", 1000, 1),
		unit("gram", "grams", "g", 1, 1000),
		unit("milligram", "milligrams", "mg", 1, 1000000),
		unit("microgram", "micrograms", "ug", 1, 1000000000),
		unit("nanogram", "nanograms", "ng", 1, 1000000000000),
	},
	"volume": {
		unit("liter", "liters", "l", 1, 1),
		unit("milliliter", "milliliters", "ml", 1, 1000),
	},
}

// DimensionNames lists the built-in dimensions in a fixed order
var DimensionNames = []string{"length", "time", "calendar-time", "mass", "volume"}

// Dimensions builds and validates the built-in dimensions
func Dimensions() ([]*domain.Dimension, error) {
	dims := make([]*domain.Dimension, 0, len(DimensionNames))
	for _, name := range DimensionNames {
		d, err := domain.NewDimension(name, dimensionTables[name])
		if err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}
	return dims, nil
}

// article picks "a" or "an" for a singular unit name
func article(name string) string {
	if name == "" {
		return "a"
	}
	if name == "hour" {
		return "an"
	}
	switch name[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an"
	}
	return "a"
}
