// Package installer places a rendered project template in the IDE template
// directory.
//
// The Makefile and descriptor templates are rendered in memory first and the
// descriptor is checked for XML well-formedness, so nothing is written when
// either fails. The writes then run as one synthfs pipeline: create the
// destination (an existing directory is fine), write the rendered files and
// copy the fixed assets. Missing assets are skipped with a warning.
package installer
