// Package types defines the catalogue and user-state entities, resource
// descriptors, worker envelopes, configuration, and standard errors shared
// by the store, ingestion, and analysis packages.
package types
