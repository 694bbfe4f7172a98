// Package api contains the HTTP handlers for the service. Handlers decode
// and validate requests, call into the service layer, and translate service
// errors into HTTP responses. They hold no business logic of their own.
package api
