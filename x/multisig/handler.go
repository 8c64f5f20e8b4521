package multisig

import (
	"bytes"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
)

// DepositReason is the hold reason of the creation deposit.
const DepositReason = "MultisigCreationDeposit"

// Ledger moves funds between accounts. It is implemented by cash.Controller.
type Ledger interface {
	ReducibleBalance(db custody.ReadOnlyKVStore, addr custody.Address, keep cash.Preservation, force cash.Fortitude) (uint64, error)
	Transfer(db custody.KVStore, src, dst custody.Address, amount uint64, keep cash.Preservation) error
	Hold(db custody.KVStore, reason string, addr custody.Address, amount uint64) error
	ReleaseAll(db custody.KVStore, reason string, addr custody.Address, precision cash.Precision) (uint64, error)
}

var _ Ledger = cash.Controller{}

// Executor dispatches an encoded call. The context carries the authority the
// call is executed with. Changes made by a failed call must not persist.
type Executor interface {
	Execute(ctx custody.Context, db custody.KVStore, call []byte) (*custody.DeliverResult, error)
}

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ledger Ledger, exec Executor) {
	b := newBase(auth)
	r.Handle(&CreateMsg{}, CreateHandler{base: b, ledger: ledger})
	r.Handle(&FundMsg{}, FundHandler{base: b, ledger: ledger})
	r.Handle(&ProposeMsg{}, ProposeHandler{base: b})
	r.Handle(&VoteMsg{}, VoteHandler{base: b})
	r.Handle(&SubmitMsg{}, SubmitHandler{base: b, exec: exec})
	r.Handle(&CancelMsg{}, CancelHandler{base: b})
	r.Handle(&DeleteMsg{}, DeleteHandler{base: b, ledger: ledger})
}

// base holds what all handlers share.
type base struct {
	auth      x.Authenticator
	multisigs MultisigBucket
	txs       TransactionBucket
}

func newBase(auth x.Authenticator) base {
	return base{
		auth:      auth,
		multisigs: NewMultisigBucket(),
		txs:       NewTransactionBucket(),
	}
}

// load extracts the message and the condition of the main signer.
func (b base) load(ctx custody.Context, tx custody.Tx, msg custody.Msg) (custody.Condition, error) {
	if err := custody.LoadMsg(tx, msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, b.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "signature missing")
	}
	return signer, nil
}

// membership loads the multisig and requires signer to be one of its
// members. notMember is returned otherwise.
func (b base) membership(db custody.ReadOnlyKVStore, addr custody.Address, signer custody.Condition, notMember *errors.Error) (*Multisig, error) {
	ms, err := b.multisigs.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if !ms.HasMember(signer.Address()) {
		return nil, errors.Wrapf(notMember, "signer %s", signer.Address())
	}
	return ms, nil
}

func blockHeight(ctx custody.Context) (int64, error) {
	height, ok := custody.GetHeight(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "block height not set")
	}
	return height, nil
}

// CreateHandler creates multisig accounts.
type CreateHandler struct {
	base
	ledger Ledger
}

var _ custody.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg CreateMsg
	if _, err := h.load(ctx, tx, &msg); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver derives the account, moves the deposit into it and holds it.
func (h CreateHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg CreateMsg
	signer, err := h.load(ctx, tx, &msg)
	if err != nil {
		return nil, err
	}
	height, err := blockHeight(ctx)
	if err != nil {
		return nil, err
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	cashConf, err := cash.LoadConfiguration(db)
	if err != nil {
		return nil, err
	}

	creator := signer.Address()
	if !containsAddress(msg.Members, creator) {
		return nil, errors.Wrapf(ErrProposerMustBeMember, "creator %s", creator)
	}
	ms := Multisig{Creator: creator, Members: normalizeMembers(msg.Members), CreatedAt: height}
	ms.Threshold = msg.Threshold
	if ms.Threshold == 0 {
		ms.Threshold = conf.DefaultThreshold
	}
	if int(ms.Threshold) > len(ms.Members) {
		return nil, errors.Wrapf(ErrThresholdTooHigh, "threshold %d for %d members", ms.Threshold, len(ms.Members))
	}
	if len(ms.Members) > int(conf.MaxMembers) {
		return nil, errors.Wrapf(errors.ErrInput, "%d members, max %d", len(ms.Members), conf.MaxMembers)
	}

	required := conf.Deposit + cashConf.ExistentialDeposit
	if required < conf.Deposit {
		return nil, errors.Wrap(errors.ErrOverflow, "deposit")
	}
	avail, err := h.ledger.ReducibleBalance(db, creator, cash.Preserve, cash.Polite)
	if err != nil {
		return nil, err
	}
	if avail < required {
		return nil, errors.Wrapf(ErrNotEnoughFunds, "want %d, available %d", required, avail)
	}

	ms.Nonce, err = h.multisigs.NextNonce(db)
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	ms.Address = AccountAddress(ms.Nonce)
	if err := h.ledger.Transfer(db, creator, ms.Address, required, cash.Expendable); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	if err := h.ledger.Hold(db, DepositReason, ms.Address, conf.Deposit); err != nil {
		return nil, errors.Wrap(err, "hold deposit")
	}
	if err := h.multisigs.Save(db, &ms); err != nil {
		return nil, errors.Wrap(err, "save multisig")
	}

	tags := newEvent(EventNewMultisig).
		addr("creator", creator).
		addr("multisig", ms.Address).
		emit(ctx)
	return &custody.DeliverResult{Data: ms.Address, Tags: tags}, nil
}

// FundHandler moves funds into a multisig account.
type FundHandler struct {
	base
	ledger Ledger
}

var _ custody.Handler = FundHandler{}

func (h FundHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg FundMsg
	if _, err := h.load(ctx, tx, &msg); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h FundHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg FundMsg
	signer, err := h.load(ctx, tx, &msg)
	if err != nil {
		return nil, err
	}
	from := signer.Address()
	avail, err := h.ledger.ReducibleBalance(db, from, cash.Preserve, cash.Polite)
	if err != nil {
		return nil, err
	}
	if avail < msg.Amount {
		return nil, errors.Wrapf(ErrNotEnoughFunds, "want %d, available %d", msg.Amount, avail)
	}
	ms, err := h.multisigs.Get(db, msg.Multisig)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Transfer(db, from, ms.Address, msg.Amount, cash.Preserve); err != nil {
		return nil, err
	}

	tags := newEvent(EventMultisigFunded).
		addr("from", from).
		addr("to", ms.Address).
		number("amount", msg.Amount).
		emit(ctx)
	return &custody.DeliverResult{Tags: tags}, nil
}

// ProposeHandler creates transactions.
type ProposeHandler struct {
	base
}

var _ custody.Handler = ProposeHandler{}

func (h ProposeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg ProposeMsg
	signer, err := h.load(ctx, tx, &msg)
	if err != nil {
		return nil, err
	}
	if _, err := h.membership(db, msg.Multisig, signer, ErrProposerMustBeMember); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver stores a new transaction approved by its proposer.
func (h ProposeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg ProposeMsg
	signer, err := h.load(ctx, tx, &msg)
	if err != nil {
		return nil, err
	}
	ms, err := h.membership(db, msg.Multisig, signer, ErrProposerMustBeMember)
	if err != nil {
		return nil, err
	}
	height, err := blockHeight(ctx)
	if err != nil {
		return nil, err
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}

	proposer := signer.Address()
	hash := CallHash(msg.Call)
	t := Transaction{
		ID:        TransactionID(proposer, height, hash),
		Multisig:  ms.Address,
		Proposer:  signer,
		Call:      msg.Call,
		CallHash:  hash,
		Status:    StatusPending,
		CreatedAt: height,
		ExpiresAt: height + conf.ExpirationBlocks,
	}
	if err := t.AddVote(proposer, VoteApprove, conf.MaxMembers); err != nil {
		return nil, err
	}
	switch _, err := h.txs.Get(db, ms.Address, t.ID); {
	case err == nil:
		return nil, errors.Wrapf(ErrTransactionAlreadyExists, "transaction %X", t.ID)
	case !ErrTransactionDoesNotExist.Is(err):
		return nil, err
	}
	if err := h.txs.Save(db, &t); err != nil {
		return nil, errors.Wrap(err, "save transaction")
	}

	tags := newEvent(EventTransactionCreated).
		addr("proposer", proposer).
		id("transaction", t.ID).
		addr("multisig", ms.Address).
		with("status", t.Status.String()).
		id("call_hash", hash).
		emit(ctx)
	return &custody.DeliverResult{Data: t.ID, Tags: tags}, nil
}

// VoteHandler records votes.
type VoteHandler struct {
	base
}

var _ custody.Handler = VoteHandler{}

func (h VoteHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg VoteMsg
	signer, err := h.load(ctx, tx, &msg)
	if err != nil {
		return nil, err
	}
	if _, err := h.membership(db, msg.Multisig, signer, ErrNotAMember); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h VoteHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg VoteMsg
	signer, err := h.load(ctx, tx, &msg)
	if err != nil {
		return nil, err
	}
	ms, err := h.membership(db, msg.Multisig, signer, ErrNotAMember)
	if err != nil {
		return nil, err
	}
	t, err := h.txs.Get(db, ms.Address, msg.TransactionID)
	if err != nil {
		return nil, err
	}
	height, err := blockHeight(ctx)
	if err != nil {
		return nil, err
	}
	if !t.IsOpen(height) {
		return nil, errors.Wrapf(ErrTransactionNotPending, "expires at %d", t.ExpiresAt)
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	voter := signer.Address()
	if err := t.AddVote(voter, msg.Vote, conf.MaxMembers); err != nil {
		return nil, err
	}
	if err := h.txs.Save(db, t); err != nil {
		return nil, errors.Wrap(err, "save transaction")
	}

	tags := newEvent(EventTransactionVoted).
		addr("voter", voter).
		id("transaction", t.ID).
		addr("multisig", ms.Address).
		with("vote", msg.Vote.String()).
		id("call_hash", t.CallHash).
		emit(ctx)
	return &custody.DeliverResult{Tags: tags}, nil
}

// SubmitHandler tallies transactions and executes the approved ones.
type SubmitHandler struct {
	base
	exec Executor
}

var _ custody.Handler = SubmitHandler{}

func (h SubmitHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg SubmitMsg
	signer, err := h.load(ctx, tx, &msg)
	if err != nil {
		return nil, err
	}
	if _, err := h.membership(db, msg.Multisig, signer, ErrNotAMember); err != nil {
		return nil, err
	}
	if !bytes.Equal(CallHash(msg.Call), msg.CallHash) {
		return nil, errors.Wrap(ErrMismatchingCallHash, "call")
	}
	return &custody.CheckResult{}, nil
}

// Deliver dispatches the call once the approvals reach the threshold, or
// drops the transaction once the rejections do. Otherwise nothing changes.
// A rejected call is never dispatched.
func (h SubmitHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg SubmitMsg
	signer, err := h.load(ctx, tx, &msg)
	if err != nil {
		return nil, err
	}
	ms, err := h.membership(db, msg.Multisig, signer, ErrNotAMember)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(CallHash(msg.Call), msg.CallHash) {
		return nil, errors.Wrap(ErrMismatchingCallHash, "call")
	}
	t, err := h.txs.Get(db, ms.Address, msg.TransactionID)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(t.CallHash, msg.CallHash) {
		return nil, errors.Wrap(ErrMismatchingCallHash, "transaction")
	}
	height, err := blockHeight(ctx)
	if err != nil {
		return nil, err
	}
	if !t.IsOpen(height) {
		return nil, errors.Wrapf(ErrTransactionNotPending, "expires at %d", t.ExpiresAt)
	}
	approvals, rejections, err := Tally(t.Status, t.Votes)
	if err != nil {
		return nil, err
	}

	var res custody.DeliverResult
	switch {
	case approvals >= ms.Threshold:
		dctx := withDispatch(ctx, t.Proposer, AccountCondition(ms.Nonce))
		out, err := h.exec.Execute(dctx, db, t.Call)
		if err != nil {
			return nil, errors.Wrap(ErrTransactionFailed, err.Error())
		}
		if out != nil {
			res = *out
		}
		t.Status = StatusComplete
	case rejections >= ms.Threshold:
		t.Status = StatusRejected
	default:
		res.Log = "threshold not reached"
		return &res, nil
	}

	if err := h.txs.Remove(db, t); err != nil {
		return nil, errors.Wrap(err, "remove transaction")
	}
	tags := newEvent(EventTransactionExecuted).
		addr("submitter", signer.Address()).
		id("transaction", t.ID).
		addr("multisig", ms.Address).
		number("approvals", uint64(approvals)).
		number("rejections", uint64(rejections)).
		with("status", t.Status.String()).
		id("call_hash", t.CallHash).
		emit(ctx)
	res.Tags = append(tags, res.Tags...)
	return &res, nil
}

// CancelHandler announces cancellations.
type CancelHandler struct {
	base
}

var _ custody.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg CancelMsg
	signer, err := h.load(ctx, tx, &msg)
	if err != nil {
		return nil, err
	}
	if _, err := h.membership(db, msg.Multisig, signer, ErrNotAMember); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver only emits an event. To drop a transaction the members reject it,
// or approve a proposal carrying a CancelMsg.
func (h CancelHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg CancelMsg
	signer, err := h.load(ctx, tx, &msg)
	if err != nil {
		return nil, err
	}
	ms, err := h.membership(db, msg.Multisig, signer, ErrNotAMember)
	if err != nil {
		return nil, err
	}
	t, err := h.txs.Get(db, ms.Address, msg.TransactionID)
	if err != nil {
		return nil, err
	}

	tags := newEvent(EventTransactionCanceled).
		addr("submitter", signer.Address()).
		id("transaction", t.ID).
		addr("multisig", ms.Address).
		with("status", StatusCanceled.String()).
		id("call_hash", t.CallHash).
		emit(ctx)
	return &custody.DeliverResult{Tags: tags}, nil
}

// DeleteHandler removes multisig accounts.
type DeleteHandler struct {
	base
	ledger Ledger
}

var _ custody.Handler = DeleteHandler{}

func (h DeleteHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg DeleteMsg
	signer, err := h.load(ctx, tx, &msg)
	if err != nil {
		return nil, err
	}
	if _, err := h.membership(db, msg.Multisig, signer, ErrNotAMember); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver releases the deposit, returns all funds to the creator and
// removes the account. Its transactions are left to expire.
func (h DeleteHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg DeleteMsg
	signer, err := h.load(ctx, tx, &msg)
	if err != nil {
		return nil, err
	}
	ms, err := h.membership(db, msg.Multisig, signer, ErrNotAMember)
	if err != nil {
		return nil, err
	}
	if _, err := h.ledger.ReleaseAll(db, DepositReason, ms.Address, cash.BestEffort); err != nil {
		return nil, errors.Wrap(err, "release deposit")
	}
	amount, err := h.ledger.ReducibleBalance(db, ms.Address, cash.Expendable, cash.Force)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Transfer(db, ms.Address, ms.Creator, amount, cash.Expendable); err != nil {
		return nil, errors.Wrap(ErrTransferFailed, err.Error())
	}
	if err := h.multisigs.Remove(db, ms.Address); err != nil {
		return nil, err
	}

	tags := newEvent(EventMultisigDeleted).
		addr("from", signer.Address()).
		addr("multisig", ms.Address).
		emit(ctx)
	return &custody.DeliverResult{Tags: tags}, nil
}
