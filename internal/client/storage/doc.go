// Package storage provides the client's key/value stores and the naming
// scheme that ties persisted keys to an owner.
//
// Two stores exist at runtime: a persistent one backed by SQLite that
// survives restarts, and a volatile in-memory one that lives for a single
// process. Both satisfy KeyValueStore. App databases other than the
// persistent store are tracked by a DatabaseRegistry so they can be dropped
// wholesale on an emergency purge.
package storage
