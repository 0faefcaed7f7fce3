package catalog

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"sudooom.codex.logic/internal/game/card"
	"sudooom.codex.logic/internal/game/codex"
	"sudooom.codex.logic/internal/game/core"
)

//go:embed cards.yaml
var defaultCards []byte

// Catalog 卡牌目录，进程内只加载一次，内容不可变
// 每局游戏通过 NewDecks 获得独立洗好的副本
type Catalog struct {
	starters   []*card.Card
	resources  []*card.Card
	golds      []*card.Card
	objectives []card.Objective
}

// Load 从文件加载目录，path 为空时使用内置目录
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCards)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析 YAML 目录
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, core.ErrInvalidCatalog.WithCause(err)
	}

	b := builder{ids: make(map[int]string)}
	c := &Catalog{}
	for _, d := range file.Starters {
		cd, err := b.starter(d)
		if err != nil {
			return nil, err
		}
		c.starters = append(c.starters, cd)
	}
	for _, d := range file.Resources {
		cd, err := b.resource(d)
		if err != nil {
			return nil, err
		}
		c.resources = append(c.resources, cd)
	}
	for _, d := range file.Golds {
		cd, err := b.gold(d)
		if err != nil {
			return nil, err
		}
		c.golds = append(c.golds, cd)
	}
	for _, d := range file.Objectives {
		o, err := b.objective(d)
		if err != nil {
			return nil, err
		}
		c.objectives = append(c.objectives, o)
	}
	return c, nil
}

// Counts 各类卡牌数量
func (c *Catalog) Counts() (starters, resources, golds, objectives int) {
	return len(c.starters), len(c.resources), len(c.golds), len(c.objectives)
}

// NewDecks 复制并洗牌
func (c *Catalog) NewDecks(rng *rand.Rand) codex.Decks {
	return codex.Decks{
		Starters:   shuffled(cloneCards(c.starters), rng),
		Resources:  shuffled(cloneCards(c.resources), rng),
		Golds:      shuffled(cloneCards(c.golds), rng),
		Objectives: shuffled(append([]card.Objective(nil), c.objectives...), rng),
	}
}

func cloneCards(cards []*card.Card) []*card.Card {
	out := make([]*card.Card, len(cards))
	for i, cd := range cards {
		out[i] = cd.Clone()
	}
	return out
}

func shuffled[T any](items []T, rng *rand.Rand) []T {
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	return items
}
