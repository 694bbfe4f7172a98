// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the
// repositories defined in internal/store to fulfill application features:
// registration and credential verification, session-token revocation,
// profile updates with rehash-on-change, owner-scoped task CRUD, and the
// account-deletion cascade.
//
// Services receive dependencies through constructor injection and depend on
// store interfaces, never on concrete infrastructure, so the HTTP layer and
// tests can compose them freely.
package service
