package common

import (
	"errors"
	"net/http"
)

// Business logic errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("resource changed concurrently, please retry")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this username or email already exists")
	ErrWrongPassword      = errors.New("old password is incorrect")

	// Content errors
	ErrVideoNotFound    = errors.New("video not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrTweetNotFound    = errors.New("tweet not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrChannelNotFound  = errors.New("channel not found")

	// Reaction errors
	ErrReactionConflict = errors.New("reaction changed concurrently, please retry")

	// Subscription errors
	ErrSelfSubscribe = errors.New("cannot subscribe to your own channel")

	// Media errors
	ErrMediaUnavailable = errors.New("media storage is not configured")
)

// StatusFor maps a service error to its HTTP status
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrSelfSubscribe),
		errors.Is(err, ErrWrongPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrVideoNotFound),
		errors.Is(err, ErrCommentNotFound),
		errors.Is(err, ErrTweetNotFound),
		errors.Is(err, ErrPlaylistNotFound),
		errors.Is(err, ErrChannelNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserAlreadyExists),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrReactionConflict):
		return http.StatusConflict
	case errors.Is(err, ErrMediaUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
