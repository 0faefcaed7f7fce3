package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Item 卡牌角落或中心承载的物品
type Item int

const (
	ItemNone Item = iota // 存在但为空的角落
	ItemPlant
	ItemAnimal
	ItemFungi
	ItemInsect
	ItemQuill
	ItemInkwell
	ItemManuscript

	itemCount
)

var itemNames = [itemCount]string{
	ItemNone:       "NONE",
	ItemPlant:      "PLANT",
	ItemAnimal:     "ANIMAL",
	ItemFungi:      "FUNGI",
	ItemInsect:     "INSECT",
	ItemQuill:      "QUILL",
	ItemInkwell:    "INKWELL",
	ItemManuscript: "MANUSCRIPT",
}

// Items 返回全部物品种类（含 NONE）
func Items() []Item {
	items := make([]Item, 0, itemCount)
	for i := ItemNone; i < itemCount; i++ {
		items = append(items, i)
	}
	return items
}

func (i Item) String() string {
	if i < 0 || i >= itemCount {
		return fmt.Sprintf("Item(%d)", int(i))
	}
	return itemNames[i]
}

// IsResource 是否为资源（植物、动物、真菌、昆虫）
func (i Item) IsResource() bool {
	return i >= ItemPlant && i <= ItemInsect
}

// IsObject 是否为物件（羽毛笔、墨水瓶、手稿）
func (i Item) IsObject() bool {
	return i >= ItemQuill && i <= ItemManuscript
}

// ParseItem 解析物品名称，大小写不敏感
func ParseItem(s string) (Item, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range itemNames {
		if n == name {
			return Item(i), nil
		}
	}
	return ItemNone, fmt.Errorf("unknown item %q", s)
}

func (i Item) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Item) UnmarshalText(text []byte) error {
	parsed, err := ParseItem(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// ItemStore 物品计数表
// 固定覆盖全部物品种类，零值即为全 0 的完整计数表
type ItemStore [itemCount]int

// NewItemStore 由 map 构造计数表
func NewItemStore(amounts map[Item]int) ItemStore {
	var s ItemStore
	for item, n := range amounts {
		s[item] = n
	}
	return s
}

// Get 获取某物品的数量
func (s ItemStore) Get(item Item) int {
	return s[item]
}

// Add 增加（或减少）某物品的数量
func (s *ItemStore) Add(item Item, n int) {
	s[item] += n
}

// Plus 逐项相加，返回新的计数表
func (s ItemStore) Plus(other ItemStore) ItemStore {
	for i := range s {
		s[i] += other[i]
	}
	return s
}

// Covers 当前数量是否满足 need 中的每一项
func (s ItemStore) Covers(need ItemStore) bool {
	for i := range need {
		if s[i] < need[i] {
			return false
		}
	}
	return true
}

// IsEmpty 是否所有种类都为 0
func (s ItemStore) IsEmpty() bool {
	for _, n := range s {
		if n != 0 {
			return false
		}
	}
	return true
}

// NonZero 返回数量不为 0 的物品，按枚举顺序
func (s ItemStore) NonZero() []Item {
	var items []Item
	for i, n := range s {
		if n != 0 {
			items = append(items, Item(i))
		}
	}
	return items
}

// Map 转换为以物品名称为键的完整 map
func (s ItemStore) Map() map[string]int {
	m := make(map[string]int, itemCount)
	for i, n := range s {
		m[itemNames[i]] = n
	}
	return m
}

func (s ItemStore) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

func (s *ItemStore) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out ItemStore
	for name, n := range m {
		item, err := ParseItem(name)
		if err != nil {
			return err
		}
		out[item] = n
	}
	*s = out
	return nil
}
