// Package reportlog persists health check reports. Sinks cover the Supabase
// REST log table, a SQL table through Bun (SQLite or Postgres), and in-memory
// and no-op variants for tests and dry runs.
package reportlog
