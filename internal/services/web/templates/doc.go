// Package templates renders the login and registration pages as templ
// components. Edit the .templ sources and run templ generate; the
// *_templ.go files are generated.
package templates
