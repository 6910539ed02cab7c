package classify

import (
	"regexp"
	"strings"

	"github.com/openrail/tdtracker/vstp"
)

// Category is the service type a headcode (plus optional schedule) maps to.
type Category string

const (
	Passenger          Category = "passenger"
	Freight            Category = "freight"
	EmptyCoachingStock Category = "empty-coaching-stock"
	RHTT               Category = "rhtt"
	Steam              Category = "steam"
	Charter            Category = "charter"
	Pullman            Category = "pullman"
	RoyalTrain         Category = "royal-train"
	Unknown            Category = "unknown"
)

// Royal train workings run under 1Xnn headcodes.
var royalPattern = regexp.MustCompile(`^1X\d\d$`)

// CIF train category codes, from the CIF user spec. A schedule's category
// code outranks any headcode heuristic because headcode prefixes are reused
// across service types.
var categoryECS = map[string]bool{
	"EE": true, "ED": true, "ES": true, // ECS variants
	"ZB": true, "ZS": true, // bus/ship replacement moves filed as ECS
}

var categoryParcels = map[string]bool{
	"JJ": true, // postal
	"PM": true, // post office controlled parcels
	"PP": true, // parcels
	"PV": true, // empty NPCCS
}

var categoryFreight = map[string]bool{
	"A0": true, "E0": true, "B0": true, "B1": true,
	"B4": true, "B5": true, "B6": true, "B7": true,
	"H0": true, "H1": true, "H2": true, "H3": true, "H4": true,
	"H5": true, "H6": true, "H7": true, "H8": true, "H9": true,
	"J2": true, "J3": true, "J4": true, "J5": true, "J6": true,
	"J8": true, "J9": true,
}

// Operators whose charters run preserved steam traction, matched as
// substrings of the operator name.
var steamOperators = []string{
	"WEST COAST RAILWAY",
	"VINTAGE TRAINS",
	"STEAM DREAMS",
	"RAILWAY TOURING",
	"LOCOMOTIVE SERVICES",
	"A1 STEAM",
}

var pullmanOperators = []string{
	"BELMOND",
	"VENICE SIMPLON",
	"PULLMAN",
	"NORTHERN BELLE",
}

// Classify maps a headcode and an optional schedule to a service category.
// The schedule may be nil; classification then relies on headcode patterns
// alone. First match wins.
func Classify(headcode string, sched *vstp.Schedule) Category {
	hc := strings.ToUpper(strings.TrimSpace(headcode))

	if royalPattern.MatchString(hc) {
		return RoyalTrain
	}

	if sched != nil {
		switch cat := strings.ToUpper(sched.Category); {
		case categoryECS[cat]:
			return EmptyCoachingStock
		case categoryParcels[cat], categoryFreight[cat]:
			return Freight
		}
	}

	if len(hc) != 4 {
		return Unknown
	}

	// A Z in second position marks a special working of any class, so it
	// is checked before the class digit.
	if hc[1] == 'Z' {
		return charterKind(sched)
	}

	switch hc[0] {
	case '4', '6', '7', '8':
		return Freight
	case '3':
		if hc[1] == 'S' {
			return RHTT
		}
		return Freight
	case '5':
		return EmptyCoachingStock
	case '1', '2', '9':
		return Passenger
	}
	return Unknown
}

// charterKind disambiguates xZxx workings using the operator when known.
func charterKind(sched *vstp.Schedule) Category {
	if sched == nil {
		return Charter
	}
	op := strings.ToUpper(OperatorName(sched.ATOCCode))
	for _, s := range steamOperators {
		if strings.Contains(op, s) {
			return Steam
		}
	}
	for _, p := range pullmanOperators {
		if strings.Contains(op, p) {
			return Pullman
		}
	}
	return Charter
}
