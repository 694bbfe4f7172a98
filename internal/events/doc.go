// Package events provides a small in-process event bus decoupling services
// from side effects. The user service emits lifecycle events (registration,
// account deletion) without knowing which handlers consume them; the
// notification pipeline subscribes and turns them into outbound email.
package events
