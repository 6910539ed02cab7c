// Package tdtracker turns the Network Rail Train Describer and VSTP feeds
// into live, queryable train positions. A Hub owns the berth topology, the
// occupancy map, the schedule index and the tracking engine; raw feed
// payloads go in through HandleRaw, snapshots come out over HTTP.
package tdtracker
