package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want InboundEvent
	}{
		{
			name: "chat",
			raw:  `{"type":"chat","receiverId":"u2","content":"hi"}`,
			want: ChatEvent{ReceiverId: "u2", Content: "hi"},
		},
		{
			name: "call end",
			raw:  `{"type":"call_end","receiverId":"u2"}`,
			want: CallEndEvent{ReceiverId: "u2"},
		},
		{
			name: "not json",
			raw:  `hello`,
			want: UnrecognizedEvent{Reason: "invalid json"},
		},
		{
			name: "unknown type",
			raw:  `{"type":"typing","receiverId":"u2"}`,
			want: UnrecognizedEvent{Type: "typing", Reason: "unknown type"},
		},
		{
			name: "missing type",
			raw:  `{"receiverId":"u2"}`,
			want: UnrecognizedEvent{Reason: "unknown type"},
		},
		{
			name: "chat without receiver",
			raw:  `{"type":"chat","content":"hi"}`,
			want: UnrecognizedEvent{Type: TypeChat, Reason: "missing receiverId"},
		},
		{
			name: "chat with empty content",
			raw:  `{"type":"chat","receiverId":"u2","content":""}`,
			want: ChatEvent{ReceiverId: "u2", Content: ""},
		},
		{
			name: "chat with null content",
			raw:  `{"type":"chat","receiverId":"u2","content":null}`,
			want: UnrecognizedEvent{Type: TypeChat, Reason: "content must be a string"},
		},
		{
			name: "chat with numeric content",
			raw:  `{"type":"chat","receiverId":"u2","content":42}`,
			want: UnrecognizedEvent{Type: TypeChat, Reason: "content must be a string"},
		},
		{
			name: "signal with null data",
			raw:  `{"type":"call_signal","receiverId":"u2","signalData":null}`,
			want: UnrecognizedEvent{Type: TypeCallSignal, Reason: "missing signalData"},
		},
		{
			name: "signal without data",
			raw:  `{"type":"call_signal","receiverId":"u2"}`,
			want: UnrecognizedEvent{Type: TypeCallSignal, Reason: "missing signalData"},
		},
		{
			name: "call end without receiver",
			raw:  `{"type":"call_end"}`,
			want: UnrecognizedEvent{Type: TypeCallEnd, Reason: "missing receiverId"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DecodeEvent([]byte(tc.raw)))
		})
	}
}

func TestDecodeCallSignalKeepsPayload(t *testing.T) {
	raw := `{"type":"call_signal","receiverId":"u2","signalData":{"sdp":"v=0","candidates":[1,2]}}`
	ev, ok := DecodeEvent([]byte(raw)).(CallSignalEvent)
	require.True(t, ok)
	require.Equal(t, "u2", ev.ReceiverId)
	require.JSONEq(t, `{"sdp":"v=0","candidates":[1,2]}`, string(ev.SignalData))

	out, err := json.Marshal(CallSignalFrame{Type: TypeCallSignal, SenderId: "u1", SignalData: ev.SignalData})
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"call_signal","senderId":"u1","signalData":{"sdp":"v=0","candidates":[1,2]}}`, string(out))
}
