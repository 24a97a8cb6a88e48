// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SiteStore: Lists the sites drafts can be uploaded to
//   - DraftStore: Returns the local drafts of a site
//   - UploadGateway: Accepts uploads and reports what is already in flight
//   - ConnectivitySource: Observable network availability
//   - LifecycleOwner: Foreground/background events and the owner's lifetime
//
// # Optional Interfaces
//
//   - ConfigStore: Application configuration. Defaults apply without it.
//   - SchedulerStore: Periodic sweep state. Without it the scheduler is not started.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
