// Package presentation decomposes Presentation API documents into the flat
// entity maps imported by the vault. Nested resources become references;
// resources described only by {id, type} are left for a later load.
package presentation
