package domain

import "time"

// DocumentStatus is the publication status of a document on its site.
type DocumentStatus string

// Document statuses.
const (
	StatusDraft     DocumentStatus = "draft"
	StatusPending   DocumentStatus = "pending"
	StatusPublished DocumentStatus = "publish"
)

// Document represents a draft owned by a site.
// It is edited elsewhere; the dispatcher only reads and forwards it.
type Document struct {
	// ID is the unique identifier for the document.
	// Two documents with the same ID are the same document.
	ID string

	// SiteID links to the Site that owns this document.
	SiteID string

	// RemoteID is the identifier assigned by the site once uploaded.
	// Empty for documents that have never been uploaded.
	RemoteID string

	// Title is the human-readable title.
	Title string

	// Content is the full body of the latest local version.
	Content string

	// Status is the publication status the document should have remotely.
	Status DocumentStatus

	// LocalChanges is set when the latest edits exist only on this device.
	LocalChanges bool

	// ModifiedAt is when the document was last edited locally.
	ModifiedAt time.Time

	// Revision is assigned by the store and increases on every save.
	Revision int64
}

// IsLocalDraft reports whether the document has edits that have not been
// confirmed synced to its site.
func (d *Document) IsLocalDraft() bool {
	return d.LocalChanges
}

// IsNew reports whether the document has never been uploaded.
func (d *Document) IsNew() bool {
	return d.RemoteID == ""
}

// UploadRequest is a single submission to the upload gateway.
type UploadRequest struct {
	// Document is the document to upload, as read at submission time.
	Document Document

	// IsRetry marks the request as re-attempting an existing local document
	// rather than uploading newly authored content.
	IsRetry bool

	// Publish forces the document to be published instead of kept as a draft.
	Publish bool
}
