package harness

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
)

// mockLogger is a simple in-memory logger for tests.
type mockLogger struct {
	buf            bytes.Buffer
	debugEnabled   bool
	verboseEnabled bool
}

func (m *mockLogger) Debug(format string, args ...interface{}) {
	fmt.Fprintf(&m.buf, format, args...)
}

func (m *mockLogger) Info(format string, args ...interface{}) {
	fmt.Fprintf(&m.buf, format, args...)
}

func (m *mockLogger) Error(format string, args ...interface{}) {
	fmt.Fprintf(&m.buf, format, args...)
}

func (m *mockLogger) IsDebugEnabled() bool {
	return m.debugEnabled
}

func (m *mockLogger) IsVerboseEnabled() bool {
	return m.verboseEnabled
}

func newTestRouter() *ConfRouter {
	return NewConfRouter("/baselines/cu_baseline.conf", "/baselines/du_baseline.conf", "/baselines/ue_baseline.conf", &mockLogger{})
}

func TestRouteControlNodeFile(t *testing.T) {
	router := newTestRouter()

	routed, matched, err := router.Route("/cases/CU_boundary_test.conf")
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if !matched {
		t.Fatal("expected CU_boundary_test.conf to match the CU role")
	}

	if routed.ModifiedRole != RoleCU {
		t.Errorf("ModifiedRole = %s, want %s", routed.ModifiedRole, RoleCU)
	}
	if routed.CaseName != "CU_boundary_test" {
		t.Errorf("CaseName = %q, want %q", routed.CaseName, "CU_boundary_test")
	}
	if routed.Configs[RoleCU].Path != "/cases/CU_boundary_test.conf" {
		t.Errorf("CU config = %q, want the input file", routed.Configs[RoleCU].Path)
	}
	if routed.Configs[RoleDU].Path != "/baselines/du_baseline.conf" {
		t.Errorf("DU config = %q, want the DU baseline", routed.Configs[RoleDU].Path)
	}
	if routed.Configs[RoleUE].Path != "/baselines/ue_baseline.conf" {
		t.Errorf("UE config = %q, want the UE baseline", routed.Configs[RoleUE].Path)
	}
}

func TestRouteRoleIndicators(t *testing.T) {
	cases := []struct {
		name string
		want Role
	}{
		{"cu_case.conf", RoleCU},
		{"du_bandwidth.conf", RoleDU},
		{"ue_case.conf", RoleUE},
		{"Boundary_DU_42.conf", RoleDU},
		{"UE-attach.conf", RoleUE},
	}

	router := newTestRouter()
	for _, c := range cases {
		routed, matched, err := router.Route(filepath.Join("/cases", c.name))
		if err != nil {
			t.Fatalf("Route(%s) returned error: %v", c.name, err)
		}
		if !matched {
			t.Errorf("Route(%s): expected a match", c.name)
			continue
		}
		if routed.ModifiedRole != c.want {
			t.Errorf("Route(%s) = %s, want %s", c.name, routed.ModifiedRole, c.want)
		}
	}
}

func TestRoutePriorityIsDeterministic(t *testing.T) {
	// A name containing multiple indicators resolves to the first-checked
	// rule: cu before du before ue.
	router := newTestRouter()

	routed, matched, err := router.Route("/cases/cu_du_handover.conf")
	if err != nil || !matched {
		t.Fatalf("Route failed: matched=%v err=%v", matched, err)
	}
	if routed.ModifiedRole != RoleCU {
		t.Errorf("cu_du_handover.conf routed to %s, want %s (first rule wins)", routed.ModifiedRole, RoleCU)
	}

	routed, matched, err = router.Route("/cases/ue_du_test.conf")
	if err != nil || !matched {
		t.Fatalf("Route failed: matched=%v err=%v", matched, err)
	}
	if routed.ModifiedRole != RoleDU {
		t.Errorf("ue_du_test.conf routed to %s, want %s (du checked before ue)", routed.ModifiedRole, RoleDU)
	}
}

func TestRouteUnmatchedFileIsSkipped(t *testing.T) {
	logger := &mockLogger{verboseEnabled: true}
	router := NewConfRouter("/b/cu.conf", "/b/du.conf", "/b/ue.conf", logger)

	routed, matched, err := router.Route("/cases/readme_notes.conf")
	if err != nil {
		t.Fatalf("skip must not be an error, got: %v", err)
	}
	if matched {
		t.Fatalf("readme_notes.conf should not match any role, got %+v", routed)
	}
	if routed != nil {
		t.Errorf("skipped route should return nil, got %+v", routed)
	}
}

func TestRouteResolvesAbsolutePaths(t *testing.T) {
	// Relative inputs must come back absolute: cases execute inside a
	// per-case working directory.
	router := NewConfRouter("baselines/cu.conf", "baselines/du.conf", "baselines/ue.conf", &mockLogger{})

	routed, matched, err := router.Route("cases/du_case.conf")
	if err != nil || !matched {
		t.Fatalf("Route failed: matched=%v err=%v", matched, err)
	}

	for role, conf := range routed.Configs {
		if !filepath.IsAbs(conf.Path) {
			t.Errorf("%s config path %q is not absolute", role.DisplayName(), conf.Path)
		}
	}
}
