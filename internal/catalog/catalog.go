package catalog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.yaml.in/yaml/v3"
)

//go:embed data/*.yaml
var defaultFS embed.FS

// Category 推荐类目（静态参照数据，引擎只读）
type Category struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	DisplayName      string   `yaml:"display_name"`
	MinTimeMinutes   int      `yaml:"min_time_minutes"`
	MaxTimeMinutes   int      `yaml:"max_time_minutes"`
	EffortLevel      string   `yaml:"effort_level"`
	CapacityRequired string   `yaml:"capacity_required"`
	LoveLanguageTags []string `yaml:"love_language_tags"`
}

// TemplateStep 模板中的单个执行步骤
type TemplateStep struct {
	Action           string `yaml:"action"`
	Tip              string `yaml:"tip,omitempty"`
	EstimatedMinutes int    `yaml:"estimated_minutes,omitempty"`
}

// Template 候选行动模板，归属且仅归属一个类目
type Template struct {
	Title               string         `yaml:"title"`
	Description         string         `yaml:"description"`
	Steps               []TemplateStep `yaml:"steps"`
	TimeEstimateMinutes int            `yaml:"time_estimate_minutes"`
	EffortLevel         string         `yaml:"effort_level"`
	PreferredTiming     string         `yaml:"preferred_timing"`
	LoveLanguageTags    []string       `yaml:"love_language_tags"`
	Rationale           string         `yaml:"rationale"`
}

// HasTag 判断模板是否携带指定爱之语标签
func (t *Template) HasTag(tag string) bool {
	for _, v := range t.LoveLanguageTags {
		if v == tag {
			return true
		}
	}
	return false
}

// categoryFile 单个 yaml 文件的结构：一个类目带它的模板池
type categoryFile struct {
	Category  Category   `yaml:"category"`
	Templates []Template `yaml:"templates"`
}

// Repository 类目/模板参照数据仓库。
// 默认加载内嵌数据；配置了目录时优先加载目录，并可通过 fsnotify 热更新。
// 引擎侧只读，Reload 全量替换快照。
type Repository struct {
	mu         sync.RWMutex
	dir        string // 为空时只用内嵌数据
	categories []Category
	pools      map[string][]Template
}

// NewRepository 创建仓库并完成首次加载
func NewRepository(dir string) (*Repository, error) {
	r := &Repository{dir: dir}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload 重新加载类目与模板池
func (r *Repository) Reload() error {
	var (
		categories []Category
		pools      = make(map[string][]Template)
	)

	load := func(name string, raw []byte) error {
		var cf categoryFile
		if err := yaml.Unmarshal(raw, &cf); err != nil {
			return fmt.Errorf("解析模板文件 %s 失败: %w", name, err)
		}
		if strings.TrimSpace(cf.Category.ID) == "" {
			return fmt.Errorf("模板文件 %s 缺少 category.id", name)
		}
		if _, dup := pools[cf.Category.ID]; dup {
			return fmt.Errorf("类目 %s 重复定义（%s）", cf.Category.ID, name)
		}
		categories = append(categories, cf.Category)
		pools[cf.Category.ID] = cf.Templates
		return nil
	}

	if r.dir != "" {
		entries, err := os.ReadDir(r.dir)
		if err != nil {
			return fmt.Errorf("读取模板目录失败: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
				continue
			}
			raw, err := os.ReadFile(filepath.Join(r.dir, e.Name()))
			if err != nil {
				return fmt.Errorf("读取模板文件失败: %w", err)
			}
			if err := load(e.Name(), raw); err != nil {
				return err
			}
		}
	} else {
		err := fs.WalkDir(defaultFS, "data", func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			raw, err := defaultFS.ReadFile(path)
			if err != nil {
				return err
			}
			return load(path, raw)
		})
		if err != nil {
			return err
		}
	}

	if len(categories) == 0 {
		return fmt.Errorf("模板库为空")
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })

	r.mu.Lock()
	r.categories = categories
	r.pools = pools
	r.mu.Unlock()

	slog.Info("模板库已加载", "categories", len(categories), "dir", r.dir)
	return nil
}

// ListCategories 返回全部类目的快照副本
func (r *Repository) ListCategories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Category 按 ID 查询类目，不存在时返回 nil
func (r *Repository) Category(id string) *Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.categories {
		if r.categories[i].ID == id {
			c := r.categories[i]
			return &c
		}
	}
	return nil
}

// ListTemplates 返回某类目的模板池快照，类目不存在时返回空切片
func (r *Repository) ListTemplates(categoryID string) []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pool := r.pools[categoryID]
	out := make([]Template, len(pool))
	copy(out, pool)
	return out
}

// Watch 监听模板目录变化并热更新，直到 ctx 结束。
// 仅在配置了外部目录时生效；变更后 onReload 回调用于对外广播。
func (r *Repository) Watch(ctx context.Context, onReload func()) error {
	if r.dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("监听模板目录失败: %w", err)
	}

	go func() {
		defer watcher.Close()

		// 编辑器保存往往触发连续多个事件，做一次简单防抖
		var pending *time.Timer
		reload := func() {
			if err := r.Reload(); err != nil {
				slog.Error("模板库热更新失败，保留旧快照", "error", err)
				return
			}
			if onReload != nil {
				onReload()
			}
		}

		for {
			select {
			case <-ctx.Done():
				if pending != nil {
					pending.Stop()
				}
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(evt.Name, ".yaml") {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(500*time.Millisecond, reload)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("模板目录监听出错", "error", err)
			}
		}
	}()

	return nil
}
