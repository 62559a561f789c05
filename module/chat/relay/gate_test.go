package relay

import (
	"testing"

	"DMProject/module/chat/model"
)

var (
	alice = model.Identity{ID: "7", Username: "alice", Role: model.RoleMember}
	bob   = model.Identity{ID: "9", Username: "bob", Role: model.RoleMember}
	root  = model.Identity{ID: "1", Username: "root", Role: model.RoleAdmin}
)

func TestCanSend(t *testing.T) {
	cases := []struct {
		name   string
		caller model.Identity
		sender string
		want   bool
	}{
		{"self", alice, "7", true},
		{"other member", alice, "9", false},
		{"admin as anyone", root, "9", true},
		{"anonymous", model.Identity{}, "7", false},
	}
	for _, tc := range cases {
		if got := CanSend(tc.caller, tc.sender); got != tc.want {
			t.Errorf("%s: CanSend = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanView(t *testing.T) {
	if !CanView(alice, "7", "9") {
		t.Error("participant denied")
	}
	if !CanView(bob, "7", "9") {
		t.Error("other participant denied")
	}
	if CanView(bob, "7", "8") {
		t.Error("outsider allowed")
	}
	if !CanView(root, "7", "8") {
		t.Error("admin denied")
	}
}

func TestCanDelete(t *testing.T) {
	m := &model.Message{ID: 1, SenderID: "7", RecipientID: "9"}
	if !CanDelete(alice, m) {
		t.Error("sender denied")
	}
	if CanDelete(bob, m) {
		t.Error("recipient allowed to delete")
	}
	if !CanDelete(root, m) {
		t.Error("admin denied")
	}
}
