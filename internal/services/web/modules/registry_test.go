package modules

import (
	"testing"

	module "github.com/louisbranch/chat.space/internal/services/web/module"
)

func TestDefaultModulesIncludeAssetsAndAuth(t *testing.T) {
	t.Parallel()

	mods := DefaultModules(Dependencies{})
	if len(mods) != 2 {
		t.Fatalf("module count = %d, want %d", len(mods), 2)
	}
	if got := mods[0].ID(); got != "assets" {
		t.Fatalf("module[0] id = %q, want %q", got, "assets")
	}
	if got := mods[1].ID(); got != "publicauth" {
		t.Fatalf("module[1] id = %q, want %q", got, "publicauth")
	}
}

func TestDefaultModulesHaveUniquePrefixes(t *testing.T) {
	t.Parallel()

	seen := map[string]string{}
	for _, mod := range DefaultModules(Dependencies{}) {
		mount, err := mod.Mount()
		if err != nil {
			t.Fatalf("Mount(%s) error = %v", mod.ID(), err)
		}
		if previous, ok := seen[mount.Prefix]; ok {
			t.Fatalf("module %q duplicates prefix %q owned by %q", mod.ID(), mount.Prefix, previous)
		}
		seen[mount.Prefix] = mod.ID()
	}
}

func TestAuthModuleReportsHealthFromClient(t *testing.T) {
	t.Parallel()

	for _, mod := range DefaultModules(Dependencies{}) {
		reporter, ok := mod.(module.HealthReporter)
		if !ok {
			continue
		}
		if reporter.Healthy() {
			t.Fatalf("module %q healthy without an auth client", mod.ID())
		}
	}
}
