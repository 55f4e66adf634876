// Package session is the client side of authentication: a state machine
// tracking the signed-in user, an HTTP client driving it against the API,
// a durable token store and a route guard for navigation decisions.
package session
