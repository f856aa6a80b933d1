// Package buildsys implements a small build system: tasks are declared in a
// Starlark script and their commands run through mvdan.cc/sh's shell
// interpreter, so task files behave the same on every platform that can
// build lss.
package buildsys
