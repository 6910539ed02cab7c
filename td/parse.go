package td

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// C-class message types carried in the feed's *_MSG envelopes.
const (
	MsgStep      = "CA"
	MsgCancel    = "CB"
	MsgInterpose = "CC"
	MsgHeartbeat = "CT"
)

// rawMessage matches the body of a CA/CB/CC/CT envelope.
type rawMessage struct {
	MsgType    string `json:"msg_type"`
	Time       string `json:"time"`
	AreaID     string `json:"area_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	Descr      string `json:"descr"`
	ReportTime string `json:"report_time"`
}

// ParseMessage decodes one Train Describer message object. The feed wraps
// the body in a key like "CA_MSG"; S-class messages and anything else return
// (nil, false) rather than an error, since the shared topic interleaves many
// message kinds.
func ParseMessage(raw []byte) (Event, bool) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, false
	}
	for key, body := range envelope {
		if !strings.HasSuffix(key, "_MSG") {
			continue
		}
		var msg rawMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			continue
		}
		if ev, ok := eventFromRaw(msg); ok {
			return ev, true
		}
	}
	return nil, false
}

func eventFromRaw(msg rawMessage) (Event, bool) {
	at := epochMillis(msg.Time)
	switch msg.MsgType {
	case MsgStep:
		if msg.From == "" && msg.To == "" {
			return nil, false
		}
		return Step{TDArea: msg.AreaID, From: msg.From, To: msg.To, Descr: msg.Descr, Time: at}, true
	case MsgCancel:
		if msg.From == "" {
			return nil, false
		}
		return Cancel{TDArea: msg.AreaID, From: msg.From, Descr: msg.Descr, Time: at}, true
	case MsgInterpose:
		if msg.To == "" {
			return nil, false
		}
		return Interpose{TDArea: msg.AreaID, To: msg.To, Descr: msg.Descr, Time: at}, true
	case MsgHeartbeat:
		if msg.ReportTime != "" {
			at = epochMillis(msg.ReportTime)
		}
		return Heartbeat{TDArea: msg.AreaID, Time: at}, true
	default:
		return nil, false
	}
}

// epochMillis parses the feed's millisecond-epoch string timestamps; a bad
// value yields the zero time, which callers replace with receipt time.
func epochMillis(s string) time.Time {
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
