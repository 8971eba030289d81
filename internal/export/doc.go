// Package export persists a loaded capacity table to downstream consumers:
// a SQLite database for ad-hoc SQL, a JSON file for scripting, a Parquet
// file for columnar analytics, and a Kafka topic for streaming subscribers.
package export
