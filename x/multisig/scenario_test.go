package multisig

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/x/cash"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSharedCustody(t *testing.T) {
	Convey("Given a 2 of 3 multisig holding funds", t, func() {
		alice := custodytest.NewCondition()
		bob := custodytest.NewCondition()
		carol := custodytest.NewCondition()
		dave := custodytest.NewCondition()

		f := newFixture(t)
		f.issue(alice.Address(), 100)
		ms := f.create(2, alice, bob, carol)
		_, err := f.deliver(alice, &FundMsg{Multisig: ms.Address, Amount: 50})
		So(err, ShouldBeNil)
		So(f.balance(ms.Address), ShouldEqual, uint64(51))

		id := f.propose(alice, ms.Address, &cash.SendMsg{Source: ms.Address, Destination: dave.Address(), Amount: 20})
		submit := f.submitMsg(ms.Address, id)

		Convey("When bob approves", func() {
			_, err := f.deliver(bob, &VoteMsg{Multisig: ms.Address, TransactionID: id, Vote: VoteApprove})
			So(err, ShouldBeNil)

			Convey("Any member can submit and the funds move", func() {
				res, err := f.deliver(carol, submit)
				So(err, ShouldBeNil)
				So(tagValue(res.Tags, "multisig.status"), ShouldEqual, "Complete")
				So(f.balance(dave.Address()), ShouldEqual, uint64(20))
				So(f.balance(ms.Address), ShouldEqual, uint64(31))

				_, err = f.transaction(ms.Address, id)
				So(ErrTransactionDoesNotExist.Is(err), ShouldBeTrue)
			})

			Convey("Carol cannot vote after expiration", func() {
				f.height += 100
				_, err := f.deliver(carol, &VoteMsg{Multisig: ms.Address, TransactionID: id, Vote: VoteReject})
				So(ErrTransactionNotPending.Is(err), ShouldBeTrue)
			})
		})

		Convey("When bob and carol reject", func() {
			for _, voter := range []custody.Condition{bob, carol} {
				_, err := f.deliver(voter, &VoteMsg{Multisig: ms.Address, TransactionID: id, Vote: VoteReject})
				So(err, ShouldBeNil)
			}

			Convey("A submission drops the transaction without moving funds", func() {
				res, err := f.deliver(alice, submit)
				So(err, ShouldBeNil)
				So(tagValue(res.Tags, "multisig.status"), ShouldEqual, "Rejected")
				So(f.balance(dave.Address()), ShouldEqual, uint64(0))
				So(f.balance(ms.Address), ShouldEqual, uint64(51))
			})
		})

		Convey("When the multisig is deleted", func() {
			_, err := f.deliver(carol, &DeleteMsg{Multisig: ms.Address})
			So(err, ShouldBeNil)
			So(f.balance(alice.Address()), ShouldEqual, uint64(100))

			Convey("Its transactions can no longer be submitted", func() {
				_, err := f.deliver(bob, submit)
				So(ErrMultisigDoesNotExist.Is(err), ShouldBeTrue)
			})
		})
	})
}
