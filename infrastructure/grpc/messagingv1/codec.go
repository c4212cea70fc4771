package messagingv1

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
)

// CodecName is grpc's default content-subtype. The codec registered under it
// writes this package's messages in the protobuf wire format of
// messaging.proto and leaves every other proto.Message to the proto package.
const CodecName = "proto"

func init() {
	encoding.RegisterCodec(wireCodec{})
}

type wireCodec struct{}

func (wireCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case wireMessage:
		return m.appendWire(nil), nil
	case proto.Message:
		return proto.Marshal(m)
	default:
		return nil, fmt.Errorf("marshal: %T is not a protobuf message", v)
	}
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case wireMessage:
		return walkFields(data, m.consumeWire)
	case proto.Message:
		return proto.Unmarshal(data, m)
	default:
		return fmt.Errorf("unmarshal: %T is not a protobuf message", v)
	}
}

func (wireCodec) Name() string {
	return CodecName
}
