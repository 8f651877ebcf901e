// Package session provides session management for Shape Connector.
//
// Manager is a thread-safe, in-memory store of service.Session values. Each
// session owns one engine, so rounds in different sessions never interact.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters drawn from crypto/rand and never
// collide with a live session. Callers may also choose their own IDs made
// of letters, digits, '-' and '_'. Lookups are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		return err
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Idle sessions are dropped with CleanupExpiredSessions, which the server
// runs periodically.
package session
