package chat

import (
	"bytes"
	"encoding/json"

	"pulse_chat_server/internal/dto/respond"
)

// 帧类型
const (
	TypeChat       = "chat"
	TypeChatAck    = "chat_ack"
	TypeChatNew    = "chat_new"
	TypeCallSignal = "call_signal"
	TypeCallEnd    = "call_end"
)

// InboundEvent 客户端上行事件，只有下面四种实现
type InboundEvent interface {
	inbound()
}

// ChatEvent 发送聊天消息
type ChatEvent struct {
	ReceiverId string
	Content    string
}

// CallSignalEvent 通话信令，SignalData 原样转发
type CallSignalEvent struct {
	ReceiverId string
	SignalData json.RawMessage
}

// CallEndEvent 挂断
type CallEndEvent struct {
	ReceiverId string
}

// UnrecognizedEvent 无法解析或类型未知的帧
type UnrecognizedEvent struct {
	Type   string
	Reason string
}

func (ChatEvent) inbound()         {}
func (CallSignalEvent) inbound()   {}
func (CallEndEvent) inbound()      {}
func (UnrecognizedEvent) inbound() {}

// inboundFrame 上行帧的线上格式
type inboundFrame struct {
	Type       string          `json:"type"`
	ReceiverId string          `json:"receiverId"`
	Content    json.RawMessage `json:"content"`
	SignalData json.RawMessage `json:"signalData"`
}

var jsonNull = []byte("null")

// DecodeEvent 解析一帧；任何不合规的输入都得到 UnrecognizedEvent
func DecodeEvent(raw []byte) InboundEvent {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return UnrecognizedEvent{Reason: "invalid json"}
	}

	switch frame.Type {
	case TypeChat:
		if frame.ReceiverId == "" {
			return UnrecognizedEvent{Type: frame.Type, Reason: "missing receiverId"}
		}
		var content string
		if len(frame.Content) == 0 || bytes.Equal(bytes.TrimSpace(frame.Content), jsonNull) ||
			json.Unmarshal(frame.Content, &content) != nil {
			return UnrecognizedEvent{Type: frame.Type, Reason: "content must be a string"}
		}
		return ChatEvent{ReceiverId: frame.ReceiverId, Content: content}
	case TypeCallSignal:
		if frame.ReceiverId == "" {
			return UnrecognizedEvent{Type: frame.Type, Reason: "missing receiverId"}
		}
		if len(frame.SignalData) == 0 || bytes.Equal(bytes.TrimSpace(frame.SignalData), jsonNull) {
			return UnrecognizedEvent{Type: frame.Type, Reason: "missing signalData"}
		}
		return CallSignalEvent{ReceiverId: frame.ReceiverId, SignalData: frame.SignalData}
	case TypeCallEnd:
		if frame.ReceiverId == "" {
			return UnrecognizedEvent{Type: frame.Type, Reason: "missing receiverId"}
		}
		return CallEndEvent{ReceiverId: frame.ReceiverId}
	default:
		return UnrecognizedEvent{Type: frame.Type, Reason: "unknown type"}
	}
}

// MessageFrame chat_ack / chat_new
type MessageFrame struct {
	Type    string                 `json:"type"`
	Message respond.MessageRespond `json:"message"`
}

// CallSignalFrame 下行信令
type CallSignalFrame struct {
	Type       string          `json:"type"`
	SenderId   string          `json:"senderId"`
	SignalData json.RawMessage `json:"signalData"`
}

// CallEndFrame 下行挂断
type CallEndFrame struct {
	Type     string `json:"type"`
	SenderId string `json:"senderId"`
}
