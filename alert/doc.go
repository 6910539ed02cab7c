// Package alert defines the alert event raised when a matching train enters
// a monitored window, and publishers that deliver it: an in-process channel
// notifier, a Kafka producer, and a fanout combining several.
package alert
