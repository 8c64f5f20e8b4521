package multisig

import (
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
)

func TestTally(t *testing.T) {
	votes := []VoteRecord{
		{Voter: custodytest.NewCondition().Address(), Vote: VoteApprove},
		{Voter: custodytest.NewCondition().Address(), Vote: VoteReject},
		{Voter: custodytest.NewCondition().Address(), Vote: VoteApprove},
	}

	approvals, rejections, err := Tally(StatusPending, votes)
	assert.Nil(t, err)
	assert.Equal(t, uint32(2), approvals)
	assert.Equal(t, uint32(1), rejections)

	approvals, rejections, err = Tally(StatusPending, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0), approvals)
	assert.Equal(t, uint32(0), rejections)

	for _, s := range []Status{StatusComplete, StatusCanceled, StatusRejected, StatusExpired} {
		_, _, err := Tally(s, votes)
		assert.IsErr(t, ErrTransactionNotPending, err)
	}
}
