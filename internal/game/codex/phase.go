package codex

// Phase 游戏阶段
type Phase string

const (
	PhaseWaitForPlayers          Phase = "WAIT_FOR_PLAYERS"
	PhaseInitPlaceStarterCard    Phase = "INIT_PLACE_STARTER_CARD"
	PhaseInitChoosePlayerColor   Phase = "INIT_CHOOSE_PLAYER_COLOR"
	PhaseInitChooseObjectiveCard Phase = "INIT_CHOOSE_OBJECTIVE_CARD"
	PhasePlaceCard               Phase = "PLACE_CARD"
	PhaseDrawCard                Phase = "DRAW_CARD"
	PhaseGameOver                Phase = "GAME_OVER"
	PhasePaused                  Phase = "GAME_PAUSED"
)

// IsInit 是否处于开局初始化阶段
func (p Phase) IsInit() bool {
	switch p {
	case PhaseInitPlaceStarterCard, PhaseInitChoosePlayerColor, PhaseInitChooseObjectiveCard:
		return true
	}
	return false
}

// InProgress 是否处于进行中的阶段（可被暂停）
func (p Phase) InProgress() bool {
	return p.IsInit() || p == PhasePlaceCard || p == PhaseDrawCard
}

// initStep 开局初始化步骤
type initStep int

const (
	stepPlaceStarter initStep = iota
	stepChooseColor
	stepChooseObjective
)

// initSteps 初始化步骤的固定顺序
var initSteps = []initStep{stepPlaceStarter, stepChooseColor, stepChooseObjective}

func (s initStep) phase() Phase {
	switch s {
	case stepPlaceStarter:
		return PhaseInitPlaceStarterCard
	case stepChooseColor:
		return PhaseInitChoosePlayerColor
	default:
		return PhaseInitChooseObjectiveCard
	}
}

// stepsFrom 从指定初始化阶段开始剩余的全部步骤
func stepsFrom(p Phase) []initStep {
	for i, s := range initSteps {
		if s.phase() == p {
			return initSteps[i:]
		}
	}
	return nil
}
