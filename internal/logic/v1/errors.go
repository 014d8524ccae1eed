// Package v1 provides the business logic for API version 1: password
// hashing, session token management, access control, and the user and
// advertisement services.
//
// Error Handling:
// This package defines sentinel errors that represent the deterministic
// rejections of the service. They are wrapped with context using
// fmt.Errorf("%w") when returned from business logic methods and checked
// with errors.Is in the web layer.
//
// Example Usage:
//
//	if row == nil {
//	    return nil, fmt.Errorf("get user %d: %w", id, ErrUserNotFound)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrUserNotFound):
//	    c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
//	case errors.Is(err, logicv1.ErrForbidden):
//	    c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
//	}
package v1

import "errors"

// Sentinel errors for user and advertisement operations. All are
// deterministic rejections, never transient faults, so none are retried.
var (
	// ErrInvalidCredentials indicates the email/password pair is incorrect.
	// Covers both an unknown email and a failed password check, so callers
	// cannot probe which part was wrong.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken indicates the presented session token is missing,
	// unknown, or expired. Deliberately a single error: the response never
	// distinguishes "expired" from "wrong token" from "never logged in".
	// HTTP Status: 401 Unauthorized
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrForbidden indicates the authenticated user is not allowed to act
	// on the target resource.
	// HTTP Status: 403 Forbidden
	ErrForbidden = errors.New("access denied")

	// ErrUserNotFound indicates the target user does not exist.
	// HTTP Status: 404 Not Found
	ErrUserNotFound = errors.New("user not found")

	// ErrAdvertisementNotFound indicates the target advertisement does not exist.
	// HTTP Status: 404 Not Found
	ErrAdvertisementNotFound = errors.New("advertisement not found")

	// ErrEmailExists indicates the email is already registered.
	// HTTP Status: 409 Conflict
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidDigest indicates a stored password hash is corrupt and
	// could not be parsed during verification. Verification fails closed.
	// HTTP Status: 500 Internal Server Error (bad stored data, not bad input)
	ErrInvalidDigest = errors.New("invalid password digest")
)
