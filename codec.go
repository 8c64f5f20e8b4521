package custody

import (
	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/custody/errors"
)

// Codec serializes every model, message and transaction of the application.
// Extensions register their messages with RegisterMsg during init so that
// a Msg can travel inside a transaction or a multisig call as an interface
// value.
var Codec = amino.NewCodec()

func init() {
	Codec.RegisterInterface((*Msg)(nil), nil)
}

// RegisterMsg registers a concrete message type under given name.
// Pass a pointer, as handlers expect pointer messages.
func RegisterMsg(msg Msg, name string) {
	Codec.RegisterConcrete(msg, name, nil)
}

// MarshalMsg serializes a message together with its type information, so
// that it can be restored with UnmarshalMsg.
func MarshalMsg(msg Msg) ([]byte, error) {
	if msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	bz, err := Codec.MarshalBinaryBare(msg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	return bz, nil
}

// UnmarshalMsg restores a message serialized with MarshalMsg.
func UnmarshalMsg(raw []byte) (Msg, error) {
	var msg Msg
	if err := Codec.UnmarshalBinaryBare(raw, &msg); err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	return msg, nil
}

// MarshalModel serializes a struct that is not registered as a message.
func MarshalModel(o interface{}) ([]byte, error) {
	bz, err := Codec.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return bz, nil
}

// UnmarshalModel restores a struct serialized with MarshalModel.
// ptr must be a pointer.
func UnmarshalModel(raw []byte, ptr interface{}) error {
	if err := Codec.UnmarshalBinaryBare(raw, ptr); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}
