// Package template renders the line-oriented templates xavr ships with its
// project template: the Makefile and the IDE template descriptor.
//
// # Syntax
//
// Templates are processed one line at a time. A line is either a marker or
// text.
//
//	@iter mcus@
//	<string>{mcu}</string>
//	@end@
//
// A line matching `@iter <name>@` opens an iteration block over the list
// <name> of the model. The lines up to the next `@end@` line form the body,
// which is emitted once per list item, in order, with placeholders resolved
// against that item alone. Marker lines themselves produce no output.
// Blocks do not nest.
//
// Every other line is emitted once with placeholders resolved against the
// scalar values of the model.
//
// # Placeholders
//
// `{name}` is replaced by the value of name in the active scope. `{{` and
// `}}` produce literal braces. Referencing a key that is not in scope is an
// error, as is a brace that is never closed.
//
// # Output
//
// Line terminators are copied as they appear in the template, so rendering
// a template that contains no placeholders or markers reproduces it byte for
// byte. RenderFile renders into memory and only writes the destination once
// the whole template rendered.
package template
