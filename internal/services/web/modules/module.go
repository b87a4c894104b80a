// Package modules composes the web feature modules.
package modules

import (
	"log"

	module "github.com/louisbranch/chat.space/internal/services/web/module"
	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
	"github.com/louisbranch/chat.space/internal/services/web/integration/google"
	"github.com/louisbranch/chat.space/internal/services/web/platform/tokencookie"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries the clients and shared config required to compose the
// web module set. Each field is typed as the narrow contract the consuming
// module declares.
type Dependencies struct {
	// AuthClient calls the remote Auth API.
	AuthClient authflow.AuthClient
	// Google enables Google sign-in when set.
	Google *google.Provider

	TokenPolicy  tokencookie.Policy
	LandingRoute string
	Logger       *log.Logger
}
