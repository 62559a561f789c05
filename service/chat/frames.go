package chat

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"

	"DMProject/tools/errs"
)

// Frame types of the live-session protocol. Client to server: login,
// messageTo. Server to client: loginOk, sendOk, newMsg, error.
const (
	FrameLogin     = "login"
	FrameLoginOK   = "loginOk"
	FrameMessageTo = "messageTo"
	FrameSendOK    = "sendOk"
	FrameNewMsg    = "newMsg"
	FrameError     = "error"
)

// Frame is the transport envelope: a named event plus its payload.
type Frame struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

type LoginData struct {
	Token string `mapstructure:"token"`
}

type MessageToData struct {
	SenderID    string `mapstructure:"senderId"`
	RecipientID string `mapstructure:"recipientId"`
	Payload     string `mapstructure:"payload"`
}

// ParseFrameJSON decodes an inbound frame envelope.
func ParseFrameJSON(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errs.WrapMsg(err, "parse frame")
	}
	if f.Type == "" {
		return nil, errs.New("frame missing type")
	}
	return &f, nil
}

// DecodeData maps the frame payload into a typed struct.
func (f *Frame) DecodeData(out any) error {
	if err := mapstructure.Decode(f.Data, out); err != nil {
		return errs.WrapMsg(err, "decode frame data", "type", f.Type)
	}
	return nil
}

// EncodeFrame builds an outbound frame. data is marshaled as-is under
// "data".
func EncodeFrame(typ string, data any) []byte {
	out, err := json.Marshal(struct {
		Type string `json:"type"`
		Data any    `json:"data,omitempty"`
	}{Type: typ, Data: data})
	if err != nil {
		// only reachable with unmarshalable data; keep the protocol alive
		out, _ = json.Marshal(Frame{Type: FrameError})
	}
	return out
}

// errorFrame turns any error into a coded error frame.
func errorFrame(err error) []byte {
	coded := errs.CodeOf(err)
	if coded == nil {
		coded = errs.ErrInternalServer
	}
	return EncodeFrame(FrameError, coded)
}
