package service

import (
	"math/rand"
	"sort"
	"sync"
	"time"
)

// Selector 多样性取样器：在打分候选里选出每类目固定数量的模板，
// 优先上周没出现过的。随机源可注入，测试里用固定种子复现选取结果。
type Selector struct {
	perCategory    int     // 每类目产出数量 K
	relevanceFloor float64 // 首轮筛选的相关性下限
	poolSize       int     // 参与抽取的高分池大小，大于 K 才有随机空间

	mu  sync.Mutex
	rng *rand.Rand
}

// SelectorConfig 取样器配置，零值字段取默认
type SelectorConfig struct {
	PerCategory    int
	RelevanceFloor float64
	PoolSize       int
	Seed           int64 // 0 取时间种子；测试注入固定种子以复现选取
}

// NewSelector 创建取样器，cfg 为 nil 时全取默认（K=3，下限 10，池 15）
func NewSelector(cfg *SelectorConfig) *Selector {
	if cfg == nil {
		cfg = &SelectorConfig{}
	}
	if cfg.PerCategory <= 0 {
		cfg.PerCategory = 3
	}
	if cfg.RelevanceFloor <= 0 {
		cfg.RelevanceFloor = 10
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 15
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Selector{
		perCategory:    cfg.PerCategory,
		relevanceFloor: cfg.RelevanceFloor,
		poolSize:       cfg.PoolSize,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// PerCategory 返回每类目的产出数量
func (s *Selector) PerCategory() int {
	return s.perCategory
}

// Pick 从打分候选里选出至多 K 条。
// 逐级放宽：达线候选不足 K 时退回全部候选；池子本身不足 K 时有多少出多少，
// 绝不凭空造模板。合格集合对相同输入是可复现的，随机只发生在池内抽取。
func (s *Selector) Pick(candidates []ScoredCandidate, wc *WeeklyContext) []ScoredCandidate {
	if len(candidates) == 0 {
		return nil
	}

	eligible := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= s.relevanceFloor {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) < s.perCategory {
		eligible = append(eligible[:0:0], candidates...)
	}

	// 分数降序、同分按标题，保证池子构成确定
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Score != eligible[j].Score {
			return eligible[i].Score > eligible[j].Score
		}
		return eligible[i].Template.Title < eligible[j].Template.Title
	})

	pool := eligible
	if len(pool) > s.poolSize {
		pool = pool[:s.poolSize]
	}

	// 池内按"上周是否出现过"分区，未出现的优先参与抽取
	var fresh, used []ScoredCandidate
	for _, c := range pool {
		if _, ok := wc.PriorWeekTitles[c.Template.Title]; ok {
			used = append(used, c)
		} else {
			fresh = append(fresh, c)
		}
	}

	s.mu.Lock()
	s.shuffle(fresh)
	s.shuffle(used)
	s.mu.Unlock()

	picked := make([]ScoredCandidate, 0, s.perCategory)
	for _, c := range fresh {
		if len(picked) >= s.perCategory {
			break
		}
		picked = append(picked, c)
	}
	for _, c := range used {
		if len(picked) >= s.perCategory {
			break
		}
		picked = append(picked, c)
	}
	return picked
}

func (s *Selector) shuffle(items []ScoredCandidate) {
	s.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
