// Package upload provides the in-process upload gateway.
//
// Queue implements driven.UploadGateway. It owns the set of documents that
// are queued or uploading and hands them, one at a time and rate limited, to
// a driven.UploadTransport. A document leaves the set once its transfer
// finishes, successfully or not; failed documents stay local drafts and are
// picked up by the next sweep.
package upload
