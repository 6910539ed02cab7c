package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openrail/tdtracker/vstp"
)

func TestClassifyHeadcodeOnly(t *testing.T) {
	tests := []struct {
		headcode string
		want     Category
	}{
		{"6M94", Freight},
		{"4L45", Freight},
		{"7X09", Freight},
		{"8A02", Freight},
		{"3S71", RHTT},
		{"3J40", Freight},
		{"5P01", EmptyCoachingStock},
		{"1Z42", Charter},
		{"2Z07", Charter},
		{"1X99", RoyalTrain},
		{"1F42", Passenger},
		{"2A01", Passenger},
		{"9M20", Passenger},
		{"0A00", Unknown},
		{"", Unknown},
		{"1F4", Unknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.headcode, nil), "headcode %q", tt.headcode)
	}
}

func TestClassifyScheduleCategoryWins(t *testing.T) {
	// An ECS category outranks the passenger-looking headcode.
	assert.Equal(t, EmptyCoachingStock, Classify("1F42", &vstp.Schedule{Category: "EE"}))
	// Parcels and freight category codes map to freight.
	assert.Equal(t, Freight, Classify("1M16", &vstp.Schedule{Category: "PP"}))
	assert.Equal(t, Freight, Classify("2Q08", &vstp.Schedule{Category: "H5"}))
	// An unrecognised category falls through to headcode rules.
	assert.Equal(t, Passenger, Classify("1F42", &vstp.Schedule{Category: "XX"}))
}

func TestClassifyRoyalOutranksSchedule(t *testing.T) {
	assert.Equal(t, RoyalTrain, Classify("1X99", &vstp.Schedule{Category: "EE"}))
}

func TestClassifyCharterOperators(t *testing.T) {
	assert.Equal(t, Steam, Classify("1Z42", &vstp.Schedule{ATOCCode: "WR"}))
	assert.Equal(t, Steam, Classify("5Z50", &vstp.Schedule{ATOCCode: "LS"}))
	assert.Equal(t, Pullman, Classify("1Z30", &vstp.Schedule{ATOCCode: "PC"}))
	assert.Equal(t, Charter, Classify("1Z42", &vstp.Schedule{ATOCCode: "VT"}))
}

func TestOperatorName(t *testing.T) {
	assert.Equal(t, "West Coast Railways", OperatorName("WR"))
	assert.Equal(t, "Avanti West Coast", OperatorName("65"))
	assert.Equal(t, "Northern Trains", OperatorName("nt"))
	assert.Equal(t, "Q9", OperatorName("Q9"))
	assert.Equal(t, "", OperatorName(""))
}
