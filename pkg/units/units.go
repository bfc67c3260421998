// Package units holds the traditional buhol/tali/luwang scale used to measure
// a pitak and the conversions between it and metric units.
package units

const (
	// MetersPerBuhol is the linear length of one buhol.
	MetersPerBuhol = 50.0
	// BuholPerTali is the number of buhol in one tali.
	BuholPerTali = 10.0
	// SqmPerLuwang is the area of one luwang in square meters.
	SqmPerLuwang = 500.0
)

// Factors is a snapshot of the scale in force when a measurement was taken.
type Factors struct {
	BuholToMeters float64 `json:"buholToMeters" bson:"buhol_to_meters"`
	TaliToBuhol   float64 `json:"taliToBuhol" bson:"tali_to_buhol"`
	LuwangToSqm   float64 `json:"luwangToSqm" bson:"luwang_to_sqm"`
}

// CurrentFactors returns the scale constants as a value that can be embedded
// in audit records and plot payloads.
func CurrentFactors() Factors {
	return Factors{
		BuholToMeters: MetersPerBuhol,
		TaliToBuhol:   BuholPerTali,
		LuwangToSqm:   SqmPerLuwang,
	}
}

// BuholToMeters converts a buhol count to meters.
func BuholToMeters(n float64) float64 {
	return n * MetersPerBuhol
}

// TaliToBuhol converts a tali count to buhol.
func TaliToBuhol(n float64) float64 {
	return n * BuholPerTali
}

// SqmToLuwang converts square meters to luwang.
func SqmToLuwang(areaSqm float64) float64 {
	return areaSqm / SqmPerLuwang
}
