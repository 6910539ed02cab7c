package classify

import "strings"

// tocNames maps numeric business codes from the movement feed to operator
// names, per Network Rail reference data.
var tocNames = map[string]string{
	"20": "TransPennine Express",
	"21": "Greater Anglia",
	"22": "Grand Central",
	"23": "Northern Trains",
	"25": "Great Western Railway",
	"27": "CrossCountry",
	"28": "East Midlands Railway",
	"29": "West Midlands Trains",
	"30": "London Overground",
	"35": "Caledonian Sleeper",
	"55": "Hull Trains",
	"60": "ScotRail",
	"61": "London North Eastern Railway",
	"64": "Merseyrail",
	"65": "Avanti West Coast",
	"71": "Transport for Wales",
	"74": "Chiltern Railways",
	"79": "c2c",
	"80": "Southeastern",
	"84": "South Western Railway",
	"86": "Heathrow Express",
	"88": "Southern/Thameslink/Gatwick Express",
}

// atocNames maps the two-letter ATOC codes VSTP schedules carry. Charter and
// heritage operators matter here because the classifier keys on them.
var atocNames = map[string]string{
	"AW": "Transport for Wales",
	"CC": "c2c",
	"CH": "Chiltern Railways",
	"CS": "Caledonian Sleeper",
	"EM": "East Midlands Railway",
	"GC": "Grand Central",
	"GN": "Great Northern",
	"GR": "London North Eastern Railway",
	"GW": "Great Western Railway",
	"GX": "Gatwick Express",
	"HT": "Hull Trains",
	"HX": "Heathrow Express",
	"IL": "Island Line",
	"LD": "Lumo",
	"LE": "Greater Anglia",
	"LM": "West Midlands Trains",
	"LO": "London Overground",
	"LS": "Locomotive Services Limited",
	"ME": "Merseyrail",
	"NT": "Northern Trains",
	"NY": "North Yorkshire Moors Railway",
	"PC": "Belmond Pullman",
	"SE": "Southeastern",
	"SN": "Southern",
	"SR": "ScotRail",
	"SW": "South Western Railway",
	"TL": "Thameslink",
	"TP": "TransPennine Express",
	"VT": "Avanti West Coast",
	"WR": "West Coast Railways",
	"XC": "CrossCountry",
	"XR": "Elizabeth Line",
	"ZZ": "Other",
}

// OperatorName resolves a business or ATOC code to an operator name.
// Unrecognised codes are returned as-is so they still display.
func OperatorName(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return ""
	}
	if name, ok := atocNames[c]; ok {
		return name
	}
	if name, ok := tocNames[c]; ok {
		return name
	}
	return c
}
