// Package config handles loading and parsing of configuration from YAML files,
// a local .env file and environment variables. It defines the list of
// endpoints to check together with logging, report and status server settings.
package config
