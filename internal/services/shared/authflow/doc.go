// Package authflow drives the login and registration forms.
//
// A Controller owns one form instance: it merges field edits, validates
// locally, exchanges the form (or a Google credential) for a session token
// through an AuthClient, persists the token, and navigates to the
// authenticated landing route. Failures end as exactly one Notice and a full
// or partial form reset; nothing is fatal.
//
// The package has no HTTP or terminal knowledge. The web module and the
// terminal client supply the ports (AuthClient, TokenStore, Notifier,
// Navigator) for their surface.
package authflow
