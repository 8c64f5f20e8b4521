/*
Package multisig implements shared custody accounts.

A group of members jointly owns a derived account. Any action on behalf of the
account is a call that one member proposes and the group votes on. Once the
number of approvals reaches the threshold of the account, any member can
submit the transaction and the call is dispatched with the authority of the
proposer and of the account. Once the number of rejections reaches the
threshold, submission removes the transaction without dispatching it.

Creating an account requires a deposit that is held in the account and
returned to the creator when the account is deleted.

Lifecycle events are returned as DeliverResult tags, all keys are prefixed
with "multisig.":

	NewMultisig          creator, multisig
	MultisigFunded       from, to, amount
	TransactionCreated   proposer, transaction, multisig, status, call_hash
	TransactionVoted     voter, transaction, multisig, vote, call_hash
	TransactionExecuted  submitter, transaction, multisig, approvals,
	                     rejections, status, call_hash
	TransactionCanceled  submitter, transaction, multisig, status, call_hash
	TransactionExpired   transaction, multisig, call_hash
	MultisigDeleted      from, multisig
*/
package multisig
