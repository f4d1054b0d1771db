package api

import (
	"net/http"

	"github.com/rpupo63/blog-platform-backend/auth"
)

// identityFromRequest pulls the authenticated identity the protect
// middleware attached to the request context.
func identityFromRequest(r *http.Request) (auth.Identity, bool) {
	return auth.IdentityFromContext(r.Context())
}
