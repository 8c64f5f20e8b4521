package multisig

import "github.com/iov-one/custody/errors"

// Tally counts approvals and rejections. Only pending transactions can be
// tallied.
func Tally(status Status, votes []VoteRecord) (approvals, rejections uint32, err error) {
	if status != StatusPending {
		return 0, 0, errors.Wrapf(ErrTransactionNotPending, "status %s", status)
	}
	for _, v := range votes {
		switch v.Vote {
		case VoteApprove:
			approvals++
		case VoteReject:
			rejections++
		}
	}
	return approvals, rejections, nil
}
