// Package ident generates record identifiers.
//
// Locally created records carry a "local-" prefixed id until the remote
// store assigns the authoritative one; the prefix makes unreconciled
// records easy to spot in logs and change-feed messages.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

const localPrefix = "local-"

// NewLocalID returns a provisional id for an optimistically created record.
func NewLocalID() string {
	return localPrefix + uuid.NewString()
}

// NewSeriesID returns an id shared by every occurrence of one recurring
// definition. Series ids are never replaced by the remote store.
func NewSeriesID() string {
	return "series-" + uuid.NewString()
}

// IsLocal reports whether id was generated locally and has not yet been
// replaced by a remote-assigned id.
func IsLocal(id string) bool {
	return strings.HasPrefix(id, localPrefix)
}
