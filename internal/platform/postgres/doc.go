// Package postgres implements the store interfaces on PostgreSQL using the
// standard database/sql API with the pgx driver. Artifact cache maps and
// grading results are stored as JSONB blobs on the day rows; day updates use
// an optimistic updated_at check so concurrent writers never silently
// overwrite each other's cache entries or status transitions.
package postgres
