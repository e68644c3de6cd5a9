package service

import (
	"blogapi/database/model"
)

// Authorization policy: pure predicates over an actor and a subject. A false
// answer surfaces as a 403 at the API layer; predicates never touch the store
// themselves (the open-request lookup is passed in by the caller).

// CanCreatePost reports whether actor may author blog posts. Admins rank
// above bloggers, so the check is by rank rather than exact role.
func CanCreatePost(actor *model.User) bool {
	return actor != nil && actor.MaxRank() >= model.RoleBlogger.Rank()
}

// CanEditOrDeletePost reports whether actor may mutate the given post.
func CanEditOrDeletePost(actor *model.User, post *model.BlogPost) bool {
	if actor == nil || post == nil {
		return false
	}
	return actor.Id == post.OwnerId || actor.IsAdmin()
}

// CanEditUser reports whether actor may update the target account.
func CanEditUser(actor, target *model.User) bool {
	if actor == nil || target == nil {
		return false
	}
	return actor.Id == target.Id || actor.IsAdmin()
}

// CanListUsers reports whether actor may list all accounts.
func CanListUsers(actor *model.User) bool {
	return actor != nil && actor.IsAdmin()
}

// CanRequestVerification reports whether actor may submit a verification
// request. Only accounts still holding the base role qualify, and only while
// they have no open request. A promoted blogger's role set no longer contains
// the base role, so promoted accounts cannot re-request.
func CanRequestVerification(actor *model.User, hasOpenRequest bool) bool {
	return actor != nil && actor.HasRole(model.RoleUser) && !hasOpenRequest
}

// CanViewVerificationRequest reports whether actor may read the request.
func CanViewVerificationRequest(actor *model.User, req *model.VerificationRequest) bool {
	if actor == nil || req == nil {
		return false
	}
	return actor.Id == req.OwnerId || actor.IsAdmin()
}

// CanEditVerificationRequest reports whether actor may update the request.
// Terminal requests are immutable through the API regardless of role.
func CanEditVerificationRequest(actor *model.User, req *model.VerificationRequest) bool {
	if actor == nil || req == nil {
		return false
	}
	return (actor.Id == req.OwnerId || actor.IsAdmin()) && req.IsOpen()
}

// CanListVerificationRequests reports whether actor may list all requests.
func CanListVerificationRequests(actor *model.User) bool {
	return actor != nil && actor.IsAdmin()
}

// CanWriteRoles reports whether actor may alter another account's role set.
func CanWriteRoles(actor *model.User) bool {
	return actor != nil && actor.IsSuperAdmin()
}

// CanCloseVerificationRequest reports whether actor may set the approved
// field or a rejection reason.
func CanCloseVerificationRequest(actor *model.User) bool {
	return actor != nil && actor.IsAdmin()
}
