package harness

import (
	"fmt"
	"path/filepath"
	"strings"
)

// roleRule binds a role-indicating substring to the role it selects.
type roleRule struct {
	indicator string
	role      Role
}

// roleRules is the ordered priority table for routing input files. Rules are
// checked top to bottom against the lower-cased base name; the first match
// wins. A name containing both "cu" and "du" therefore routes to the CU.
// That tie-break is part of the routing contract, not an accident of
// check order.
var roleRules = []roleRule{
	{"cu", RoleCU},
	{"du", RoleDU},
	{"ue", RoleUE},
}

// ConfRouter classifies a single input configuration file into the role it
// modifies and substitutes the baseline configurations for the other two
// roles. Baseline paths are supplied once at construction and never altered.
type ConfRouter struct {
	baselines map[Role]string
	logger    HarnessLogger
}

// NewConfRouter creates a router with the three baseline configuration paths.
func NewConfRouter(cuBaseline, duBaseline, ueBaseline string, logger HarnessLogger) *ConfRouter {
	return &ConfRouter{
		baselines: map[Role]string{
			RoleCU: cuBaseline,
			RoleDU: duBaseline,
			RoleUE: ueBaseline,
		},
		logger: logger,
	}
}

// Route classifies the input file by its base name. It returns the routed
// case and true on a match, or nil and false when no role indicator matches
// (a skip, not an error). All returned paths are absolute: execution happens
// inside a per-case working directory, so relative paths would resolve
// against the wrong location.
func (r *ConfRouter) Route(confPath string) (*RoutedCase, bool, error) {
	base := filepath.Base(confPath)
	name := strings.ToLower(base)

	var matched *roleRule
	for i := range roleRules {
		if strings.Contains(name, roleRules[i].indicator) {
			matched = &roleRules[i]
			break
		}
	}
	if matched == nil {
		r.logger.Info("⏭️  %s matches no role indicator (cu/du/ue), skipping\n", base)
		return nil, false, nil
	}

	configs := make(map[Role]RoleConfig, len(r.baselines))
	for role, baseline := range r.baselines {
		path := baseline
		if role == matched.role {
			path = confPath
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to resolve %s configuration path %s: %w", role.DisplayName(), path, err)
		}
		configs[role] = RoleConfig{Role: role, Path: abs}
	}

	caseName := strings.TrimSuffix(base, filepath.Ext(base))
	r.logger.Debug("🧭 Routed %s to role %s\n", base, matched.role.DisplayName())

	return &RoutedCase{
		CaseName:     caseName,
		ModifiedRole: matched.role,
		Configs:      configs,
	}, true, nil
}
