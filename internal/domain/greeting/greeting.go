// Package greeting builds the greeting texts served by the API.
package greeting

const rootText = "Hello World!"

// Root returns the static greeting.
func Root() string {
	return rootText
}

// Greet returns "Hello, {name}!". name is not validated or escaped.
func Greet(name string) string {
	return "Hello, " + name + "!"
}
