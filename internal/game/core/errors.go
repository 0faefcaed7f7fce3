package core

import (
	"errors"
	"fmt"
	"maps"
)

// ErrorKind 错误分类
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION" // 动作参数或棋盘条件不满足
	KindState      ErrorKind = "STATE"      // 回合或阶段不对
	KindConfig     ErrorKind = "CONFIG"     // 游戏创建、查找、加入相关
)

// GameError 游戏错误类型
type GameError struct {
	Code    string         // 错误代码
	Kind    ErrorKind      // 错误分类
	Message string         // 错误消息
	Cause   error          // 原因错误
	Context map[string]any // 错误上下文
}

func (e *GameError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *GameError) Unwrap() error {
	return e.Cause
}

// Is 按错误代码比较，使带上下文的副本仍能匹配哨兵错误
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	return ok && t.Code == e.Code
}

// NewGameError 创建游戏错误
func NewGameError(kind ErrorKind, code, message string) *GameError {
	return &GameError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// WithCause 返回附带原因错误的副本
func (e *GameError) WithCause(cause error) *GameError {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithContext 返回附带上下文信息的副本
func (e *GameError) WithContext(key string, value any) *GameError {
	c := e.clone()
	c.Context[key] = value
	return c
}

func (e *GameError) clone() *GameError {
	c := *e
	c.Context = make(map[string]any, len(e.Context)+1)
	maps.Copy(c.Context, e.Context)
	return &c
}

// KindOf 获取错误分类，非 GameError 返回空字符串
func KindOf(err error) ErrorKind {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

// CodeOf 获取错误代码，非 GameError 返回空字符串
func CodeOf(err error) string {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// 放置与资源校验错误
var (
	ErrPositionOccupied      = NewGameError(KindValidation, "POSITION_OCCUPIED", "该坐标已有卡牌")
	ErrNotAdjacent           = NewGameError(KindValidation, "NOT_ADJACENT", "坐标没有相邻的卡牌")
	ErrIncompatiblePlacement = NewGameError(KindValidation, "INCOMPATIBLE_PLACEMENT", "相邻卡牌在该方向没有角")
	ErrInsufficientResources = NewGameError(KindValidation, "INSUFFICIENT_RESOURCES", "资源不足，无法放置该面")
)

// 动作参数校验错误
var (
	ErrHandFull          = NewGameError(KindValidation, "HAND_FULL", "手牌已满")
	ErrUnknownCard       = NewGameError(KindValidation, "UNKNOWN_CARD", "卡牌不存在")
	ErrInvalidColor      = NewGameError(KindValidation, "INVALID_COLOR", "颜色无效或已被选择")
	ErrInvalidObjective  = NewGameError(KindValidation, "INVALID_OBJECTIVE", "目标卡不在可选范围内")
	ErrInvalidDrawSource = NewGameError(KindValidation, "INVALID_DRAW_SOURCE", "抽牌来源为空")
	ErrUnknownPlayer     = NewGameError(KindValidation, "UNKNOWN_PLAYER", "玩家不在该游戏中")
)

// 回合与阶段错误
var (
	ErrNotYourTurn           = NewGameError(KindState, "NOT_YOUR_TURN", "当前不是该玩家的回合")
	ErrInvalidPhaseForAction = NewGameError(KindState, "INVALID_PHASE_FOR_ACTION", "当前游戏阶段不允许此操作")
)

// 游戏配置错误
var (
	ErrGameNameTaken         = NewGameError(KindConfig, "GAME_NAME_TAKEN", "游戏名称已存在")
	ErrGameNotFound          = NewGameError(KindConfig, "GAME_NOT_FOUND", "游戏不存在")
	ErrPlayerCountOutOfRange = NewGameError(KindConfig, "PLAYER_COUNT_OUT_OF_RANGE", "玩家人数超出范围")
	ErrDuplicatePlayerName   = NewGameError(KindConfig, "DUPLICATE_PLAYER_NAME", "玩家名称重复")
	ErrGameFull              = NewGameError(KindConfig, "GAME_FULL", "游戏人数已满")
	ErrInvalidCatalog        = NewGameError(KindConfig, "INVALID_CATALOG", "卡牌目录无效")
	ErrTooManyGames          = NewGameError(KindConfig, "TOO_MANY_GAMES", "同时进行的游戏数量已达上限")
)
