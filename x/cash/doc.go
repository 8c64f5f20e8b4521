/*
Package cash implements the single token ledger of the application.

Every address owns at most one wallet. A wallet has a free balance and a list
of holds. Held funds are named by a reason, cannot be spent and can only be
returned to the free balance by releasing the hold.

An account must keep at least the existential deposit in its free balance to
exist. Transfers that are not allowed to reap the source account use the
Preserve mode.
*/
package cash
