package actor

import "errors"

var (
	// ErrNoSuchActor is reported when an envelope is addressed to an unknown actor.
	ErrNoSuchActor = errors.New("no such actor")
	// ErrActorStopped is reported for requests against a stopped actor or system.
	ErrActorStopped  = errors.New("actor stopped")
	ErrDuplicateName = errors.New("actor name already in use")
	// ErrUnexpectedMessage is returned by receivers for content they do not handle.
	ErrUnexpectedMessage = errors.New("unexpected message")

	errMailboxClosed = errors.New("mailbox closed")
)
