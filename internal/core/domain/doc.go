// Package domain defines the core business entities for draftpost.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Site: A content destination that drafts are uploaded to
//   - Document: A draft belonging to a site, possibly with local-only edits
//   - ConnectivityState: The observed network availability
//   - LifecycleEvent: A foreground/background transition of the host process
//   - UploadRequest: What the dispatcher hands to the upload gateway
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
