package harness

import (
	"testing"
)

func TestTerminateWithNoMatchesIsNoOp(t *testing.T) {
	// Terminating when no matching process exists must succeed with no side
	// effect. The identity is unique enough that pgrep finds nothing.
	logger := &mockLogger{debugEnabled: true}
	cleaner := NewCleanupManager([]string{"gnbtest-no-such-binary-d41d8cd9"}, logger)

	if err := cleaner.Terminate(); err != nil {
		t.Fatalf("Terminate with no matches returned error: %v", err)
	}
}

func TestTerminateIsIdempotent(t *testing.T) {
	cleaner := NewCleanupManager([]string{"gnbtest-no-such-binary"}, &mockLogger{})

	for i := 0; i < 3; i++ {
		if err := cleaner.Terminate(); err != nil {
			t.Fatalf("Terminate invocation %d returned error: %v", i+1, err)
		}
	}
}

func TestAliveRolesEmptyWithoutTrackedProcesses(t *testing.T) {
	cleaner := NewCleanupManager([]string{"nr-softmodem"}, &mockLogger{})

	// Non-nil so the manifest field serializes as [] rather than null.
	alive := cleaner.AliveRoles()
	if alive == nil {
		t.Fatal("AliveRoles = nil, want an empty slice")
	}
	if len(alive) != 0 {
		t.Errorf("AliveRoles = %v, want empty with nothing tracked", alive)
	}
}

func TestIdentitiesDeduplicated(t *testing.T) {
	// The CU and DU share one binary; its identity must be swept only once.
	cleaner := NewCleanupManager([]string{"/opt/oai/nr-softmodem", "/opt/oai/nr-softmodem", "/opt/oai/nr-uesoftmodem"}, &mockLogger{})

	cm := cleaner.(*cleanupManager)
	if len(cm.identities) != 2 {
		t.Errorf("identities = %v, want 2 unique base names", cm.identities)
	}
}
