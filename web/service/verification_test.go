package service

import (
	"testing"

	"blogapi/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerificationService(mailer Mailer) *VerificationService {
	return NewVerificationService(NewNotificationService(mailer))
}

func TestCreateRequestStartsOpen(t *testing.T) {
	setup(t)
	defer teardown()

	svc := newVerificationService(&fakeMailer{})
	owner := createUser(t, "nobody@example.com")

	req, err := svc.CreateRequest(owner, "  link/to/some/image ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRequested, req.Status)
	assert.Equal(t, "link/to/some/image", req.PidImage)
	assert.Equal(t, owner.Id, req.OwnerId)
	assert.True(t, req.IsOpen())
}

func TestSecondOpenRequestIsRejected(t *testing.T) {
	setup(t)
	defer teardown()

	svc := newVerificationService(&fakeMailer{})
	owner := createUser(t, "nobody@example.com")

	_, err := svc.CreateRequest(owner, "some/image")
	require.NoError(t, err)

	_, err = svc.CreateRequest(owner, "another/image")
	assert.ErrorIs(t, err, ErrOpenRequestExists)

	hasOpen, err := svc.HasOpenRequest(owner.Id)
	require.NoError(t, err)
	assert.True(t, hasOpen)
}

func TestNewRequestAllowedAfterPreviousIsClosed(t *testing.T) {
	setup(t)
	defer teardown()

	svc := newVerificationService(&fakeMailer{})
	admin := createUser(t, "lowlyadmin@example.com", model.RoleAdmin)
	owner := createUser(t, "nobody@example.com")

	req, err := svc.CreateRequest(owner, "some/image")
	require.NoError(t, err)

	declined := false
	_, err = svc.UpdateRequest(admin, req, VerificationUpdate{Approved: &declined})
	require.NoError(t, err)

	_, err = svc.CreateRequest(owner, "a/better/image")
	require.NoError(t, err)
}

func TestApprovalPromotesOwnerAndSendsMail(t *testing.T) {
	setup(t)
	defer teardown()

	mailer := &fakeMailer{}
	svc := newVerificationService(mailer)
	userSvc := NewUserService()

	admin := createUser(t, "lowlyadmin@example.com", model.RoleAdmin)
	owner := createUser(t, "nobody@example.com")
	req, err := svc.CreateRequest(owner, "some/image")
	require.NoError(t, err)

	approved := true
	updated, err := svc.UpdateRequest(admin, req, VerificationUpdate{Approved: &approved})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status)

	promoted, err := userSvc.GetUser(owner.Id)
	require.NoError(t, err)
	assert.Equal(t, model.RoleList{model.RoleBlogger}, promoted.GetRoles())

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "nobody@example.com", mailer.sent[0].to)
	assert.Equal(t, "You have been verified!", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "Congratulations")
}

func TestDeclinePreservesReasonAndSendsMail(t *testing.T) {
	setup(t)
	defer teardown()

	mailer := &fakeMailer{}
	svc := newVerificationService(mailer)

	admin := createUser(t, "lowlyadmin@example.com", model.RoleAdmin)
	owner := createUser(t, "nobody@example.com")
	req, err := svc.CreateRequest(owner, "some/image")
	require.NoError(t, err)

	approved := false
	reason := "document unreadable"
	updated, err := svc.UpdateRequest(admin, req, VerificationUpdate{Approved: &approved, RejectionReason: &reason})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDeclined, updated.Status)
	assert.Equal(t, "document unreadable", updated.RejectionReason)

	ownerAfter, err := NewUserService().GetUser(owner.Id)
	require.NoError(t, err)
	assert.Equal(t, model.RoleList{model.RoleUser}, ownerAfter.GetRoles())

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Your verification request has been declined", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "document unreadable")
}

func TestDeclineWithoutReasonSendsGenericMail(t *testing.T) {
	setup(t)
	defer teardown()

	mailer := &fakeMailer{}
	svc := newVerificationService(mailer)

	admin := createUser(t, "lowlyadmin@example.com", model.RoleAdmin)
	owner := createUser(t, "nobody@example.com")
	req, err := svc.CreateRequest(owner, "some/image")
	require.NoError(t, err)

	approved := false
	_, err = svc.UpdateRequest(admin, req, VerificationUpdate{Approved: &approved})
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.NotContains(t, mailer.sent[0].body, "for the following reason")
}

func TestMailFailureDoesNotRollBackTransition(t *testing.T) {
	setup(t)
	defer teardown()

	mailer := &failingMailer{}
	svc := newVerificationService(mailer)

	admin := createUser(t, "lowlyadmin@example.com", model.RoleAdmin)
	owner := createUser(t, "nobody@example.com")
	req, err := svc.CreateRequest(owner, "some/image")
	require.NoError(t, err)

	approved := true
	updated, err := svc.UpdateRequest(admin, req, VerificationUpdate{Approved: &approved})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status)
	assert.Equal(t, 1, mailer.attempts)

	promoted, err := NewUserService().GetUser(owner.Id)
	require.NoError(t, err)
	assert.Equal(t, model.RoleList{model.RoleBlogger}, promoted.GetRoles())
}

func TestNonAdminCannotCloseOrSetReason(t *testing.T) {
	setup(t)
	defer teardown()

	mailer := &fakeMailer{}
	svc := newVerificationService(mailer)

	owner := createUser(t, "nobody@example.com")
	req, err := svc.CreateRequest(owner, "some/image")
	require.NoError(t, err)

	// The approved flag and reason are write-group gated: for a plain
	// owner they are dropped, the rest of the update still applies.
	approved := true
	reason := "self approval"
	pidImage := "link/to/a/better/image"
	updated, err := svc.UpdateRequest(owner, req, VerificationUpdate{
		PidImage:        &pidImage,
		Approved:        &approved,
		RejectionReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRequested, updated.Status)
	assert.Empty(t, updated.RejectionReason)
	assert.Equal(t, "link/to/a/better/image", updated.PidImage)
	assert.Empty(t, mailer.sent)

	ownerAfter, err := NewUserService().GetUser(owner.Id)
	require.NoError(t, err)
	assert.Equal(t, model.RoleList{model.RoleUser}, ownerAfter.GetRoles())
}

func TestCloseIsIdempotentOnTerminalStates(t *testing.T) {
	setup(t)
	defer teardown()

	mailer := &fakeMailer{}
	svc := newVerificationService(mailer)

	admin := createUser(t, "lowlyadmin@example.com", model.RoleAdmin)
	owner := createUser(t, "nobody@example.com")
	req, err := svc.CreateRequest(owner, "some/image")
	require.NoError(t, err)

	approved := true
	closed, err := svc.UpdateRequest(admin, req, VerificationUpdate{Approved: &approved})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	// Re-approving an already approved request persists without side
	// effects: no second mail, roles untouched.
	_, err = svc.UpdateRequest(admin, closed, VerificationUpdate{Approved: &approved})
	require.NoError(t, err)
	assert.Len(t, mailer.sent, 1)
}

func TestListFiltersByExactStatus(t *testing.T) {
	setup(t)
	defer teardown()

	svc := newVerificationService(&fakeMailer{})
	admin := createUser(t, "lowlyadmin@example.com", model.RoleAdmin)

	user1 := createNamedUser(t, "bumblebee@example.com", "Aram", "Khachaturyan")
	user2 := createNamedUser(t, "dj.skiljo@example.com", "DJ", "Skiljo")
	user3 := createNamedUser(t, "bumblebee.dj@example.com", "DJ", "Khachatovsky")

	closeRequest(t, svc, admin, user1, false)
	mustCreateRequest(t, svc, user1)
	closeRequest(t, svc, admin, user2, true)
	mustCreateRequest(t, svc, user3)

	open, err := svc.ListRequests(ListFilters{Status: string(model.StatusRequested)})
	require.NoError(t, err)
	require.Len(t, open, 2)
	for _, r := range open {
		assert.Equal(t, model.StatusRequested, r.Status)
	}

	approvedReqs, err := svc.ListRequests(ListFilters{Status: string(model.StatusApproved)})
	require.NoError(t, err)
	require.Len(t, approvedReqs, 1)
	assert.Equal(t, "dj.skiljo@example.com", approvedReqs[0].Owner.Email)

	declinedReqs, err := svc.ListRequests(ListFilters{Status: string(model.StatusDeclined)})
	require.NoError(t, err)
	require.Len(t, declinedReqs, 1)
	assert.Equal(t, "bumblebee@example.com", declinedReqs[0].Owner.Email)
}

func TestListFiltersByPartialOwnerFields(t *testing.T) {
	setup(t)
	defer teardown()

	svc := newVerificationService(&fakeMailer{})
	admin := createUser(t, "lowlyadmin@example.com", model.RoleAdmin)

	user1 := createNamedUser(t, "bumblebee@example.com", "Aram", "Khachaturyan")
	user2 := createNamedUser(t, "dj.skiljo@example.com", "DJ", "Skiljo")
	user3 := createNamedUser(t, "bumblebee.dj@example.com", "DJ", "Khachatovsky")

	closeRequest(t, svc, admin, user1, false)
	mustCreateRequest(t, svc, user1)
	closeRequest(t, svc, admin, user2, true)
	mustCreateRequest(t, svc, user3)

	byEmail, err := svc.ListRequests(ListFilters{OwnerEmail: "dj"})
	require.NoError(t, err)
	require.Len(t, byEmail, 2)
	for _, r := range byEmail {
		assert.Contains(t, r.Owner.Email, "dj")
	}

	byFirstName, err := svc.ListRequests(ListFilters{OwnerFirstName: "Aram"})
	require.NoError(t, err)
	assert.Len(t, byFirstName, 2)

	byLastName, err := svc.ListRequests(ListFilters{OwnerLastName: "Khachat"})
	require.NoError(t, err)
	assert.Len(t, byLastName, 3)
}

func TestListPartialMatchIsCaseSensitive(t *testing.T) {
	setup(t)
	defer teardown()

	svc := newVerificationService(&fakeMailer{})
	owner := createNamedUser(t, "dj.skiljo@example.com", "DJ", "Skiljo")
	mustCreateRequest(t, svc, owner)

	lower, err := svc.ListRequests(ListFilters{OwnerEmail: "dj"})
	require.NoError(t, err)
	assert.Len(t, lower, 1)

	upper, err := svc.ListRequests(ListFilters{OwnerEmail: "DJ"})
	require.NoError(t, err)
	assert.Empty(t, upper)
}

func TestListOrdersByCreationTime(t *testing.T) {
	setup(t)
	defer teardown()

	svc := newVerificationService(&fakeMailer{})
	admin := createUser(t, "lowlyadmin@example.com", model.RoleAdmin)
	owner := createUser(t, "nobody@example.com")

	// Timestamps carry second precision only; assign distinct seconds
	// instead of sleeping between same-second creations.
	first := closeRequest(t, svc, admin, owner, false)
	setCreated(t, first, 1000)
	second := closeRequest(t, svc, admin, owner, false)
	setCreated(t, second, 2000)
	third := mustCreateRequest(t, svc, owner)
	setCreated(t, third, 3000)

	asc, err := svc.ListRequests(ListFilters{Order: "asc"})
	require.NoError(t, err)
	require.Len(t, asc, 3)
	for i := 1; i < len(asc); i++ {
		assert.Less(t, asc[i-1].Created, asc[i].Created)
	}

	desc, err := svc.ListRequests(ListFilters{Order: "desc"})
	require.NoError(t, err)
	require.Len(t, desc, 3)
	for i := 1; i < len(desc); i++ {
		assert.Greater(t, desc[i-1].Created, desc[i].Created)
	}
}

func mustCreateRequest(t *testing.T, svc *VerificationService, owner *model.User) *model.VerificationRequest {
	t.Helper()
	req, err := svc.CreateRequest(owner, "some/image")
	require.NoError(t, err)
	return req
}

func closeRequest(t *testing.T, svc *VerificationService, admin, owner *model.User, approved bool) *model.VerificationRequest {
	t.Helper()
	req := mustCreateRequest(t, svc, owner)
	closed, err := svc.UpdateRequest(admin, req, VerificationUpdate{Approved: &approved})
	require.NoError(t, err)
	return closed
}
