package shorturl

import "errors"

var (
	// ErrNotFound means no record exists under the requested code.
	ErrNotFound = errors.New("short url not found")

	// ErrExpired means the record existed but its expiration has passed.
	// Detection deletes the record, so later lookups return ErrNotFound.
	ErrExpired = errors.New("short url expired")

	// ErrAliasTaken means a record already exists under the requested code.
	ErrAliasTaken = errors.New("custom alias already exists")

	// ErrInvalidURL means the original URL could not be parsed.
	ErrInvalidURL = errors.New("invalid original url")

	// ErrCodeExhausted means no unique generated code was found within the
	// retry budget.
	ErrCodeExhausted = errors.New("could not allocate a unique short code")
)
