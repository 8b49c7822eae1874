package ids

import "github.com/segmentio/ksuid"

// New returns a K-sortable unique identifier for entity primary keys.
func New() string {
	return ksuid.New().String()
}
