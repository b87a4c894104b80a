package modules

import (
	"github.com/louisbranch/chat.space/internal/services/web/modules/assets"
	"github.com/louisbranch/chat.space/internal/services/web/modules/publicauth"
)

// DefaultModules returns the stable web modules in mount order.
func DefaultModules(deps Dependencies) []Module {
	return []Module{
		assets.New(),
		publicauth.New(publicauth.Config{
			Auth:         deps.AuthClient,
			Google:       deps.Google,
			Token:        deps.TokenPolicy,
			LandingRoute: deps.LandingRoute,
			Logger:       deps.Logger,
		}),
	}
}
