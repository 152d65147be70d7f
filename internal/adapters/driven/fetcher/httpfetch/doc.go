// Package httpfetch implements the JSON-over-HTTP document loader.
package httpfetch
