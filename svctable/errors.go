package svctable

import "errors"

var (
	errShortBuffer      = errors.New("svctable: buffer shorter than fixed service header")
	errNoPathTerminator = errors.New("svctable: missing NUL path terminator")
	errUnknownService   = errors.New("svctable: no service registered for id")
)
