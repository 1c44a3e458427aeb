package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS gigs (
	id                TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	clinic_id         TEXT NOT NULL,
	clinic_name       TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	specialty         TEXT NOT NULL DEFAULT '',
	rate              REAL NOT NULL DEFAULT 0,
	status            TEXT NOT NULL DEFAULT 'active',
	starts_at         DATETIME NOT NULL,
	ends_at           DATETIME NOT NULL,
	application_count INTEGER NOT NULL DEFAULT 0,
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL,
	fetched_at        DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS applications (
	id            TEXT PRIMARY KEY,
	gig_id        TEXT NOT NULL,
	gig_title     TEXT NOT NULL DEFAULT '',
	provider_id   TEXT NOT NULL,
	provider_name TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'pending',
	note          TEXT NOT NULL DEFAULT '',
	applied_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL,
	fetched_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gigs_clinic_id ON gigs(clinic_id);
CREATE INDEX IF NOT EXISTS idx_gigs_status ON gigs(status);
CREATE INDEX IF NOT EXISTS idx_gigs_specialty ON gigs(specialty);
CREATE INDEX IF NOT EXISTS idx_gigs_updated_at ON gigs(updated_at);
CREATE INDEX IF NOT EXISTS idx_applications_gig_id ON applications(gig_id);
CREATE INDEX IF NOT EXISTS idx_applications_provider_id ON applications(provider_id);
CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_gigs_status_starts
	ON gigs(status, starts_at);

CREATE INDEX IF NOT EXISTS idx_applications_status_updated
	ON applications(status, updated_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
