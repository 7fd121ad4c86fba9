package db

const (
	// SchemaV1 defines version 1 of the studystore component schema.
	//
	// Every entity kind lives in one kv_records row whose value is the JSON
	// envelope of the whole collection. version is the optimistic concurrency
	// token compared on every write.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS rpager_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS kv_records (
    key VARCHAR(256) PRIMARY KEY,
    value BLOB NOT NULL,
    version INTEGER NOT NULL CHECK (version > 0),
    created_at REAL DEFAULT (unixepoch()),
    updated_at REAL DEFAULT (unixepoch())
);
`
)
