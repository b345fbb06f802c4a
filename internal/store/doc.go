// Package store provides SQLite-backed durable client storage.
//
// It replaces browser local storage for the storefront:
//   - session: the single bearer token plus the cached user profile
//   - flash: one-time messages with an expiry, consumed on first read
//
// Every authenticated API call reads the token through Token, so a logout in
// one process is seen by the next request of any other process sharing the
// file.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Schema changes are tracked with PRAGMA user_version.
package store
