package proto

import "encoding/json"

// ActionType 玩家动作类型
type ActionType string

const (
	ActionJoin             ActionType = "JOIN"
	ActionChooseColor      ActionType = "CHOOSE_COLOR"
	ActionPlaceCard        ActionType = "PLACE_CARD"
	ActionDrawFromField    ActionType = "DRAW_FROM_FIELD"
	ActionDrawResourceDeck ActionType = "DRAW_RESOURCE_DECK"
	ActionDrawGoldDeck     ActionType = "DRAW_GOLD_DECK"
	ActionSwitchCardSide   ActionType = "SWITCH_CARD_SIDE"
	ActionSetObjective     ActionType = "SET_OBJECTIVE"
	ActionConnection       ActionType = "CONNECTION"
	ActionHeartbeat        ActionType = "HEARTBEAT"
	ActionView             ActionType = "VIEW"
)

// ============== 上行消息 (Access -> Logic) ==============

// GameRequest 玩家动作请求，玩家身份已由接入层认证
type GameRequest struct {
	ReqId     string     `json:"reqId"`
	Game      string     `json:"game"`
	Player    string     `json:"player"`
	Action    ActionType `json:"action"`
	CardId    int        `json:"cardId,omitempty"`
	X         int        `json:"x,omitempty"`
	Y         int        `json:"y,omitempty"`
	Flipped   bool       `json:"flipped,omitempty"` // true 表示以背面放置
	Color     string     `json:"color,omitempty"`
	Connected bool       `json:"connected,omitempty"`
}

// ============== 下行消息 (Logic -> Access) ==============

// GameResponse 对请求的应答
type GameResponse struct {
	ReqId      string          `json:"reqId"`
	ResponseId string          `json:"responseId"`
	Game       string          `json:"game"`
	Ok         bool            `json:"ok"`
	Error      *ErrorBody      `json:"error,omitempty"`
	View       json.RawMessage `json:"view,omitempty"`
}

// ErrorBody 错误信息
type ErrorBody struct {
	Code    string `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ViewPush 动作成功后推送给该局所有订阅者的视图
// Version 同一局内单调递增，订阅者可以丢弃不高于已收到版本的推送
type ViewPush struct {
	Game      string          `json:"game"`
	Phase     string          `json:"phase"`
	Version   uint64          `json:"version"`
	View      json.RawMessage `json:"view"`
	Timestamp int64           `json:"timestamp"`
}
