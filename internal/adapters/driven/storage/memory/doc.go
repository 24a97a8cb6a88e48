// Package memory provides in-memory implementations of the driven store ports.
// They back the --in-memory mode of the CLI and are handy in tests; nothing
// survives the process.
package memory
