package db

// schema creates the capture-side tables. The retry queue table is owned by
// the sync engine (see sync.InitRetryQueue), mirroring how the event log is
// initialized by its owner rather than here.
const schema = `
CREATE TABLE IF NOT EXISTS merge_store (
	vehicle_no  TEXT PRIMARY KEY,
	mobile      TEXT,
	rate        TEXT,
	valid_date  TEXT,
	upto_date   TEXT,
	updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS pending_records (
	vehicle_no  TEXT PRIMARY KEY,
	mobile      TEXT NOT NULL DEFAULT '',
	rate        TEXT NOT NULL DEFAULT '',
	valid_date  TEXT NOT NULL DEFAULT '',
	upto_date   TEXT NOT NULL DEFAULT '',
	captured_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pending_captured ON pending_records(captured_at DESC);

CREATE TABLE IF NOT EXISTS sync_status (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	total_synced INTEGER NOT NULL DEFAULT 0
);

INSERT OR IGNORE INTO sync_status (id, total_synced) VALUES (1, 0);

CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	data       JSON NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
