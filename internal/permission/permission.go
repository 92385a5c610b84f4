// Package permission holds the object-level access rule for snippets:
// anyone may read, only the owner may write.
package permission

import (
	"net/http"

	"github.com/sakif/snippets/internal/model"
)

// IsSafeMethod reports whether method is read-only (GET, HEAD, OPTIONS).
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// IsOwnerOrReadOnly allows safe methods for everyone and mutating methods only
// when requesterID is the snippet's owner. An anonymous requester ("") never
// owns anything.
func IsOwnerOrReadOnly(method, requesterID string, snippet *model.Snippet) bool {
	if IsSafeMethod(method) {
		return true
	}
	return snippet != nil && requesterID != "" && snippet.OwnerID == requesterID
}
