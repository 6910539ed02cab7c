// Package config loads and validates the application configuration from a
// YAML file: server port, Network Rail feed settings, SMART reference data
// source, tracker bounds, monitored windows and the optional Kafka alert sink.
package config
