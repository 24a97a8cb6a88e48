// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// AutoUploader is the heart of the package: it turns connectivity and
// lifecycle transitions into upload submissions. Scheduler adds a periodic
// sweep on top of it.
package services
