/*
Package sigs provides the authentication middleware that verifies the
ed25519 signatures of a transaction and keeps a per key sequence for replay
protection.

Every verified signature adds the condition of its public key to the context.
Handlers read them back through the Authenticate type, which implements
x.Authenticator.
*/
package sigs
