// Package dupes finds files with identical content under a directory tree.
//
// An Engine runs the scan as a sequence of phases on a worker goroutine:
// walk, sort by size, hash, sort by hash, group, sort by name and report.
// The scan can be paused and resumed without repeating finished work, and
// cancelled at any checkpoint. Progress and result rows are delivered to a
// Notifier on the worker goroutine.
package dupes
