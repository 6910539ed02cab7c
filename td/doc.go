/*
Package td decodes Train Describer C-class messages and maintains current
berth occupancy.

A Step message moves a description between berths, an Interpose sets one, a
Cancel clears one and a Heartbeat is a pure liveness signal. Occupancy applies
each event with last-write-wins semantics on the individual berth: the feed
is ordered per area but bursts can interleave, so no causal reconciliation is
attempted across berths. Apply returns the Transition list an event caused,
which is what the tracking engine consumes.
*/
package td
