package smart

// BerthKey identifies a berth within a Train Describer area.
type BerthKey struct {
	Area  string
	Berth string
}

func (k BerthKey) String() string { return k.Area + ":" + k.Berth }

// StepRecord is one raw SMART BERTHDATA record: a directed berth step with
// optional station attribution.
type StepRecord struct {
	TDArea    string `json:"TD"`
	FromBerth string `json:"FROMBERTH"`
	ToBerth   string `json:"TOBERTH"`
	FromLine  string `json:"FROMLINE"`
	ToLine    string `json:"TOLINE"`
	Stanox    string `json:"STANOX"`
	Stanme    string `json:"STANME"`
	Platform  string `json:"PLATFORM"`
	Event     string `json:"EVENT"`
	StepType  string `json:"STEPTYPE"`
}

// Link is one directed edge out of (or into) a berth.
type Link struct {
	To       BerthKey
	Line     string
	StepType string
}

// Attribution ties a berth to a station.
type Attribution struct {
	Stanox   string
	Name     string
	Platform string
}

// Direction selects which edges a traversal follows.
type Direction int

const (
	// Successors follows steps down-line (from → to).
	Successors Direction = iota
	// Predecessors follows steps up-line (to → from).
	Predecessors
)

// EnumeratedBerth is one entry of a sequential berth enumeration.
type EnumeratedBerth struct {
	Key       BerthKey
	Attr      Attribution
	AtStation bool
}
