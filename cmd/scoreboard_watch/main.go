// scoreboard_watch 连接观战推送并在终端打印事件
//
// 用法：
//
//	go run ./cmd/scoreboard_watch -addr 127.0.0.1:8089
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/coder/websocket"

	"github.com/gonewx/ballbounce/internal/scoreboard"
)

var addr = flag.String("addr", "127.0.0.1:8089", "观战推送地址")

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn, _, err := websocket.Dial(ctx, "ws://"+*addr+"/ws", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "连接失败: %v\n", err)
		os.Exit(1)
	}
	defer conn.CloseNow()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintf(os.Stderr, "连接断开: %v\n", err)
			}
			return
		}
		msg, err := scoreboard.Decode(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "无法解析消息: %v\n", err)
			continue
		}
		printMessage(msg)
	}
}

func printMessage(msg scoreboard.Message) {
	switch msg.Type {
	case scoreboard.MsgSnapshot:
		var p scoreboard.SnapshotPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			fmt.Printf("#%d 当前分数 %d，剩余 %d 秒，最高分 %d\n", msg.Seq, p.Score, p.Remaining, p.HighScore)
		}
	case scoreboard.MsgScore:
		var p scoreboard.ScorePayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			fmt.Printf("#%d %s → %d（落点 %.1f, %.1f）\n", msg.Seq, p.Label, p.Score, p.X, p.Z)
		}
	case scoreboard.MsgTimer:
		var p scoreboard.TimerPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			fmt.Printf("#%d 剩余 %d 秒\n", msg.Seq, p.Remaining)
		}
	case scoreboard.MsgEnd:
		var p scoreboard.EndPayload
		if json.Unmarshal(msg.Payload, &p) == nil {
			suffix := ""
			if p.NewHighScore {
				suffix = "，新纪录"
			}
			fmt.Printf("#%d 结束：%d 分（最高 %d%s）\n", msg.Seq, p.Score, p.HighScore, suffix)
		}
	default:
		fmt.Printf("#%d 未知消息 %s\n", msg.Seq, msg.Type)
	}
}
