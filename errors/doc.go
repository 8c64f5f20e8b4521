/*
Package errors implements the error kinds used across custody.

Every error returned to a client should wrap one of the root errors declared
with Register. The root error carries an ABCI code that lets the client
distinguish failure kinds without parsing messages.

Extensions declare their own root errors during startup:

	var ErrAlreadyVoted = errors.Register(60, "already voted")

and wrap them at the point of failure to attach context and a stacktrace:

	return errors.Wrapf(ErrAlreadyVoted, "voter %s", addr)

Use Is to test the kind of an error, regardless of how many times it was
wrapped.
*/
package errors
