package services

import (
	"errors"
	"testing"

	"github.com/buglab/bug-lab-be/internal/testutil"
)

func TestAssignAndDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAssignmentService(db)

	scientistID := testutil.CreateTestScientist(t, db, "Alice", "a@x.com", nil)
	bugID := testutil.CreateTestBug(t, db, "Heisenbug", 9, "concurrency")

	assignment, err := svc.Assign(scientistID, bugID)
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if assignment.ScientistID != scientistID || assignment.BugID != bugID {
		t.Errorf("Unexpected assignment returned: %+v", assignment)
	}

	if _, err := svc.Assign(scientistID, bugID); !errors.Is(err, ErrConflict) {
		t.Fatalf("Expected ErrConflict on duplicate assign, got %v", err)
	}

	n := testutil.CountRows(t, db, "SELECT COUNT(*) FROM scientist_bugs WHERE scientist_id = ? AND bug_id = ?", scientistID, bugID)
	if n != 1 {
		t.Errorf("Expected exactly 1 assignment row, got %d", n)
	}
}

func TestAssignMissingEntities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAssignmentService(db)

	scientistID := testutil.CreateTestScientist(t, db, "Alice", "a@x.com", nil)
	bugID := testutil.CreateTestBug(t, db, "Heisenbug", 9, "concurrency")

	if _, err := svc.Assign(scientistID, "missing-bug"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing bug, got %v", err)
	}
	if _, err := svc.Assign("missing-scientist", bugID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing scientist, got %v", err)
	}
	if n := testutil.CountRows(t, db, "SELECT COUNT(*) FROM scientist_bugs"); n != 0 {
		t.Errorf("Expected no assignment rows, got %d", n)
	}
}

func TestUnassignTwice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAssignmentService(db)

	scientistID := testutil.CreateTestScientist(t, db, "Alice", "a@x.com", nil)
	bugID := testutil.CreateTestBug(t, db, "Heisenbug", 9, "concurrency")

	if _, err := svc.Assign(scientistID, bugID); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if _, err := svc.Unassign(scientistID, bugID); err != nil {
		t.Fatalf("Unassign failed: %v", err)
	}
	if _, err := svc.Unassign(scientistID, bugID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second unassign, got %v", err)
	}
}

func TestUnassignMissingEntities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAssignmentService(db)

	bugID := testutil.CreateTestBug(t, db, "Heisenbug", 9, "concurrency")

	if _, err := svc.Unassign("missing-scientist", bugID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing scientist, got %v", err)
	}
}

func TestBugsForScientist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAssignmentService(db)

	scientistID := testutil.CreateTestScientist(t, db, "Alice", "a@x.com", nil)
	first := testutil.CreateTestBug(t, db, "Heisenbug", 9, "concurrency")
	second := testutil.CreateTestBug(t, db, "Off-by-one", 3, "logic")

	if _, err := svc.Assign(scientistID, first); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if _, err := svc.Assign(scientistID, second); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	bugs, err := svc.BugsForScientist(scientistID)
	if err != nil {
		t.Fatalf("BugsForScientist failed: %v", err)
	}
	if len(bugs) != 2 {
		t.Fatalf("Expected 2 bugs, got %d", len(bugs))
	}

	if _, err := svc.BugsForScientist("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown scientist, got %v", err)
	}
}
