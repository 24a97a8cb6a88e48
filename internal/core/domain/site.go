package domain

import (
	"fmt"
	"time"
)

// Site represents a content destination that drafts are uploaded to.
// Sites are only used as a grouping key by the dispatcher.
type Site struct {
	// ID is the unique identifier for the site.
	ID string

	// Name is the human-readable name for this site.
	Name string

	// URL is the address of the remote destination.
	URL string

	// CreatedAt is when the site was added.
	CreatedAt time.Time
}

// DisplayName returns the site name followed by its URL when both are set.
func (s *Site) DisplayName() string {
	if s.URL != "" && s.Name != "" {
		return fmt.Sprintf("%s (%s)", s.Name, s.URL)
	}
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}
