// Package web serves the browser-facing login and registration pages.
//
// The pages drive authflow controllers per request and exchange credentials
// with the remote Auth API. A successful sign-in stores the session token in
// a cookie and lands the browser on the chat application.
package web
