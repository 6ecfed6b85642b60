package tracking

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec defines the serialization contract for tracking records in
// byte-oriented backends (redis).
type Codec interface {
	// Encode serializes a record to bytes.
	Encode(rec *Record) ([]byte, error)

	// Decode deserializes bytes into a record.
	Decode(data []byte) (*Record, error)

	// Name returns the codec identifier (e.g., "json", "msgpack").
	Name() string
}

// Codec name constants.
const (
	CodecNameJSON    = "json"
	CodecNameMsgpack = "msgpack"
)

// GetCodec returns a codec by name. Defaults to JSON.
func GetCodec(name string) Codec {
	switch name {
	case CodecNameMsgpack:
		return &MsgpackCodec{}
	default:
		return &JSONCodec{}
	}
}

// JSONCodec encodes/decodes tracking records as JSON.
type JSONCodec struct{}

func (c *JSONCodec) Encode(rec *Record) ([]byte, error) {
	return json.Marshal(rec)
}

func (c *JSONCodec) Decode(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *JSONCodec) Name() string { return CodecNameJSON }

// MsgpackCodec encodes/decodes tracking records as MessagePack.
type MsgpackCodec struct{}

func (c *MsgpackCodec) Encode(rec *Record) ([]byte, error) {
	return msgpack.Marshal(rec)
}

func (c *MsgpackCodec) Decode(data []byte) (*Record, error) {
	var r Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *MsgpackCodec) Name() string { return CodecNameMsgpack }
