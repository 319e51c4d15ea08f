package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/yamdb/internal/apperr"
)

var allActions = []Action{List, Retrieve, Create, Update, Delete}

func TestDecide_Catalog(t *testing.T) {
	for _, kind := range []ResourceKind{Title, Genre, Category} {
		for _, action := range allActions {
			for _, role := range []Role{Anonymous, User, Moderator, Admin} {
				got := Decide(role, false, role == Anonymous, action, kind)
				want := action.IsRead() || role == Admin
				assert.Equal(t, Decision(want), got, "%s %s by %s", action, kind, role)
			}
		}
	}
}

func TestDecide_Account(t *testing.T) {
	for _, action := range allActions {
		assert.Equal(t, Deny, Decide(User, true, false, action, Account), "owner %s", action)
		assert.Equal(t, Deny, Decide(Moderator, false, false, action, Account))
		assert.Equal(t, Deny, Decide(Anonymous, false, true, action, Account))
		assert.Equal(t, Allow, Decide(Admin, false, false, action, Account))
	}
}

func TestDecide_ReviewComment(t *testing.T) {
	tests := []struct {
		name      string
		role      Role
		owner     bool
		anonymous bool
		action    Action
		kind      ResourceKind
		want      Decision
	}{
		{"user deletes foreign review", User, false, false, Delete, Review, Deny},
		{"moderator deletes foreign review", Moderator, false, false, Delete, Review, Allow},
		{"owner deletes own review", User, true, false, Delete, Review, Allow},
		{"admin updates foreign comment", Admin, false, false, Update, Comment, Allow},
		{"user updates foreign comment", User, false, false, Update, Comment, Deny},
		{"anonymous creates comment", Anonymous, false, true, Create, Comment, Deny},
		{"user creates comment", User, false, false, Create, Comment, Allow},
		{"anonymous lists reviews", Anonymous, false, true, List, Review, Allow},
		{"anonymous retrieves comment", Anonymous, false, true, Retrieve, Comment, Allow},
		{"anonymous cannot claim ownership", User, true, true, Delete, Review, Deny},
		{"anonymous role without flag", Anonymous, false, false, Create, Review, Deny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.role, tt.owner, tt.anonymous, tt.action, tt.kind))
		})
	}
}

func TestDecide_UnknownKind(t *testing.T) {
	assert.Equal(t, Deny, Decide(Admin, true, false, Retrieve, ResourceKind("upload")))
}

func TestAuthorize_Ownership(t *testing.T) {
	owner := uint(7)
	op := Operation{Actor: NewActor(7, "user", false), Action: Update, Kind: Review, OwnerID: &owner}
	assert.True(t, op.IsOwner())
	assert.Equal(t, Allow, Authorize(op))

	op.Actor = NewActor(8, "user", false)
	assert.False(t, op.IsOwner())
	assert.Equal(t, Deny, Authorize(op))

	op.OwnerID = nil
	op.Actor = NewActor(8, "moderator", false)
	assert.Equal(t, Allow, Authorize(op))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, Admin, ParseRole("user", true))
	assert.Equal(t, Admin, ParseRole("admin", false))
	assert.Equal(t, Moderator, ParseRole("moderator", false))
	assert.Equal(t, User, ParseRole("user", false))
	assert.Equal(t, User, ParseRole("bogus", false))
}

func TestAuthorizeSelf(t *testing.T) {
	assert.Equal(t, Deny, AuthorizeSelf(AnonymousActor()))
	assert.Equal(t, Allow, AuthorizeSelf(NewActor(1, "user", false)))
}

func TestCheck(t *testing.T) {
	err := Check(Operation{Actor: AnonymousActor(), Action: Create, Kind: Comment})
	var ae *apperr.AuthorizationError
	if assert.ErrorAs(t, err, &ae) {
		assert.True(t, ae.Anonymous)
		assert.Equal(t, "create", ae.Action)
		assert.Equal(t, "comment", ae.Kind)
	}

	assert.NoError(t, Check(Operation{Actor: NewActor(1, "user", false), Action: Create, Kind: Comment}))
}
