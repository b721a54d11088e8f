package store

// schemaVersionV1 is the current run-history schema.
const schemaVersionV1 = 1

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = schemaVersionV1

var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	status      TEXT NOT NULL,
	dataset     TEXT NOT NULL DEFAULT '',
	agents      TEXT NOT NULL DEFAULT '',
	samples     INTEGER NOT NULL DEFAULT 0,
	max_time    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS steps (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	name        TEXT NOT NULL,
	status      TEXT NOT NULL,
	exit_code   INTEGER NOT NULL DEFAULT 0,
	attempts    INTEGER NOT NULL DEFAULT 0,
	started_at  TEXT,
	finished_at TEXT,
	log_path    TEXT,
	output_path TEXT,
	PRIMARY KEY (run_id, name)
);
`
