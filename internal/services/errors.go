package services

import (
	"errors"
)

var (
	// ErrNotFound is returned for unknown slugs, usernames and ids.
	ErrNotFound = errors.New("record not found")
	// ErrNotAuthor is returned when a user edits somebody else's post.
	ErrNotAuthor = errors.New("not the author")
	// ErrSelfFollow is returned for a user following themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrSelfLike is returned for an author liking their own content.
	ErrSelfLike = errors.New("cannot like your own content")
	// ErrEmptyText is returned for a post or comment without text.
	ErrEmptyText = errors.New("text must not be empty")
)
