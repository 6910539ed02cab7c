// Package classify maps headcodes, optionally backed by a VSTP schedule, to
// service categories. Schedule category codes outrank headcode heuristics;
// the royal train pattern outranks everything.
package classify
