package proto

// NATS Subject 常量定义
const (
	// SubjectLogicAction Access -> Logic 玩家动作请求
	SubjectLogicAction = "codex.logic.action"

	// SubjectGameViewPrefix Logic -> Access 游戏视图推送前缀
	// 完整格式: codex.game.{name}.view
	SubjectGameViewPrefix = "codex.game."
	SubjectGameViewSuffix = ".view"

	// QueueGroupLogic Logic 服务队列组名称
	QueueGroupLogic = "codex-logic"
)

// BuildGameViewSubject 构建游戏视图推送 Subject
func BuildGameViewSubject(game string) string {
	return SubjectGameViewPrefix + game + SubjectGameViewSuffix
}
