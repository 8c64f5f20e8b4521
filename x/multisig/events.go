package multisig

import (
	"encoding/hex"
	"strconv"

	"github.com/iov-one/custody"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	eventPrefix = "multisig."

	EventNewMultisig         = "NewMultisig"
	EventMultisigFunded      = "MultisigFunded"
	EventTransactionCreated  = "TransactionCreated"
	EventTransactionVoted    = "TransactionVoted"
	EventTransactionExecuted = "TransactionExecuted"
	EventTransactionCanceled = "TransactionCanceled"
	EventTransactionExpired  = "TransactionExpired"
	EventMultisigDeleted     = "MultisigDeleted"
)

// EventKey is the tag key holding the kind of the event.
const EventKey = eventPrefix + "event"

type event struct {
	kind   string
	fields []string
}

func newEvent(kind string) *event {
	return &event{kind: kind}
}

func (e *event) with(key, value string) *event {
	e.fields = append(e.fields, key, value)
	return e
}

func (e *event) addr(key string, a custody.Address) *event {
	return e.with(key, a.String())
}

func (e *event) id(key string, b []byte) *event {
	return e.with(key, hex.EncodeToString(b))
}

func (e *event) number(key string, n uint64) *event {
	return e.with(key, strconv.FormatUint(n, 10))
}

// emit logs the event and returns it as tags.
func (e *event) emit(ctx custody.Context) []common.KVPair {
	tags := make([]common.KVPair, 0, 1+len(e.fields)/2)
	tags = append(tags, common.KVPair{Key: []byte(EventKey), Value: []byte(e.kind)})
	keyvals := make([]interface{}, 0, len(e.fields))
	for i := 0; i < len(e.fields); i += 2 {
		tags = append(tags, common.KVPair{
			Key:   []byte(eventPrefix + e.fields[i]),
			Value: []byte(e.fields[i+1]),
		})
		keyvals = append(keyvals, e.fields[i], e.fields[i+1])
	}
	custody.GetLogger(ctx).Info(e.kind, keyvals...)
	return tags
}
