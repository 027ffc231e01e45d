package model

import "testing"

func TestAssignmentStatusTerminal(t *testing.T) {
	if AssignmentStatusPending.Terminal() {
		t.Error("PENDING should not be terminal")
	}
	if !AssignmentStatusCompleted.Terminal() {
		t.Error("COMPLETED should be terminal")
	}
	if !AssignmentStatusCancelled.Terminal() {
		t.Error("CANCELLED should be terminal")
	}
}

func TestActorCan(t *testing.T) {
	actor := Actor{ID: 1, Permissions: []string{"schedules:read", "schedules:write"}}

	if !actor.Can(PermissionSchedulesRead) {
		t.Error("actor should hold schedules:read")
	}
	if actor.Can(PermissionRosterImport) {
		t.Error("actor should not hold roster:import")
	}

	var anon Actor
	if anon.Can(PermissionSchedulesRead) {
		t.Error("zero actor should hold no permissions")
	}
}
