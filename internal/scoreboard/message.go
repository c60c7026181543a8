package scoreboard

import "encoding/json"

// 推送给观战客户端的消息类型
const (
	MsgSnapshot = "snapshot"
	MsgScore    = "score"
	MsgTimer    = "timer"
	MsgEnd      = "end"
)

// Message 推送消息
type Message struct {
	Type    string          `json:"type"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}

// ScorePayload 分数变化
type ScorePayload struct {
	Score      int     `json:"score"`
	Delta      int     `json:"delta"`
	Label      string  `json:"label"`
	X          float64 `json:"x"`
	Z          float64 `json:"z"`
	ZoneRadius float64 `json:"zoneRadius,omitempty"`
}

// TimerPayload 回合剩余秒数
type TimerPayload struct {
	Remaining int `json:"remaining"`
}

// EndPayload 一局结束
type EndPayload struct {
	Score        int  `json:"score"`
	HighScore    int  `json:"highScore"`
	NewHighScore bool `json:"newHighScore"`
}

// SnapshotPayload 新连接收到的当前状态
type SnapshotPayload struct {
	Score     int `json:"score"`
	Remaining int `json:"remaining"`
	HighScore int `json:"highScore"`
}

func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func Decode(data []byte) (Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	return msg, err
}

func newMessage(msgType string, seq uint64, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Seq: seq, Payload: raw}, nil
}
