package vstp

import (
	"encoding/json"
	"strings"
	"time"
)

// Location is one calling point of a schedule's stopping pattern.
type Location struct {
	Tiploc    string
	Arrival   string // HHMMSS, may carry a half-minute suffix
	Departure string
	Platform  string
}

// Schedule is one VSTP/CIF schedule record, reduced to the fields the
// tracking engine enriches trains with.
type Schedule struct {
	UID          string
	Headcode     string // signalling ID, matches TD train descriptions
	Category     string // CIF train category, e.g. "XX", "EE"
	ATOCCode     string
	STPIndicator string
	StartDate    time.Time
	EndDate      time.Time
	Locations    []Location
	InsertedAt   time.Time
}

// Origin returns the first calling point, if any.
func (s Schedule) Origin() (Location, bool) {
	if len(s.Locations) == 0 {
		return Location{}, false
	}
	return s.Locations[0], true
}

// Destination returns the last calling point, if any.
func (s Schedule) Destination() (Location, bool) {
	if len(s.Locations) == 0 {
		return Location{}, false
	}
	return s.Locations[len(s.Locations)-1], true
}

// OriginDestination extracts both ends of the stopping pattern.
func OriginDestination(s Schedule) (Location, Location) {
	o, _ := s.Origin()
	d, _ := s.Destination()
	return o, d
}

// Wire shapes. The VSTP feed wraps a CIF-flavoured schedule in a
// VSTPCIFMsgV1 envelope; some producers use the JsonScheduleV1 key.
type vstpEnvelope struct {
	VSTPCIFMsgV1   *vstpMsg     `json:"VSTPCIFMsgV1"`
	JsonScheduleV1 *rawSchedule `json:"JsonScheduleV1"`
}

type vstpMsg struct {
	Schedule *rawSchedule `json:"schedule"`
}

type rawSchedule struct {
	UID          string        `json:"CIF_train_uid"`
	StartDate    string        `json:"schedule_start_date"`
	EndDate      string        `json:"schedule_end_date"`
	STPIndicator string        `json:"CIF_stp_indicator"`
	Segments     []rawSegment  `json:"schedule_segment"`
}

type rawSegment struct {
	SignallingID string        `json:"signalling_id"`
	Category     string        `json:"CIF_train_category"`
	ATOCCode     string        `json:"atoc_code"`
	Locations    []rawLocation `json:"schedule_location"`
}

type rawLocation struct {
	Location  *rawLocationRef `json:"location"`
	Tiploc    string          `json:"tiploc_code"`
	Arrival   string          `json:"scheduled_arrival_time"`
	Departure string          `json:"scheduled_departure_time"`
	Platform  string          `json:"CIF_platform"`
}

type rawLocationRef struct {
	Tiploc struct {
		ID string `json:"tiploc_id"`
	} `json:"tiploc"`
}

// ParseMessage decodes one VSTP schedule message. Non-VSTP payloads return
// (Schedule{}, false); the shared topic carries other message kinds.
func ParseMessage(raw []byte) (Schedule, bool) {
	var env vstpEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Schedule{}, false
	}
	var rs *rawSchedule
	switch {
	case env.VSTPCIFMsgV1 != nil && env.VSTPCIFMsgV1.Schedule != nil:
		rs = env.VSTPCIFMsgV1.Schedule
	case env.JsonScheduleV1 != nil:
		rs = env.JsonScheduleV1
	default:
		return Schedule{}, false
	}

	s := Schedule{
		UID:          strings.TrimSpace(rs.UID),
		STPIndicator: strings.TrimSpace(rs.STPIndicator),
		StartDate:    parseDate(rs.StartDate),
		EndDate:      parseDate(rs.EndDate),
	}
	if len(rs.Segments) > 0 {
		seg := rs.Segments[0]
		s.Headcode = strings.TrimSpace(seg.SignallingID)
		s.Category = strings.TrimSpace(seg.Category)
		s.ATOCCode = strings.TrimSpace(seg.ATOCCode)
		for _, loc := range seg.Locations {
			tiploc := strings.TrimSpace(loc.Tiploc)
			if tiploc == "" && loc.Location != nil {
				tiploc = strings.TrimSpace(loc.Location.Tiploc.ID)
			}
			if tiploc == "" {
				continue
			}
			s.Locations = append(s.Locations, Location{
				Tiploc:    tiploc,
				Arrival:   strings.TrimSpace(loc.Arrival),
				Departure: strings.TrimSpace(loc.Departure),
				Platform:  strings.TrimSpace(loc.Platform),
			})
		}
	}
	if s.UID == "" && s.Headcode == "" {
		return Schedule{}, false
	}
	return s, true
}

// parseDate accepts the feed's YYYY-MM-DD dates; a bad value yields the zero
// time, which Insert treats as an open bound.
func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
