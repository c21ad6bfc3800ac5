// Package watch drives the compilers from filesystem changes. It sweeps the
// watch root once at startup, then turns fsnotify events into [FileEvent]
// values and hands each one, synchronously and in order, to every
// [Dispatcher]. A dispatcher compiles created and modified sources, removes
// the outputs of deleted ones, and reports every result to a notification
// sink.
package watch
