// Package tagging edits tag values of one picture at a time.
//
// A Session holds an in-memory projection of the picture's tag values. Add,
// Set and Remove only change the projection; Commit writes every pending
// change in one catalog transaction and Discard drops them. The package has
// no UI dependencies; the CLI drives it one command at a time and any other
// front end can hold a Session for longer.
package tagging
