package services

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrAlreadyFollowing   = errors.New("already following this user")
	ErrNotFollowing       = errors.New("not following this user")
	ErrSelfLike           = errors.New("cannot like your own post")
	ErrAlreadyLiked       = errors.New("post already liked")
	ErrNotLiked           = errors.New("post not liked")
	ErrForbidden          = errors.New("not authorized to modify this post")
)
