package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liuynx/Tandem/internal/catalog"
	"github.com/liuynx/Tandem/internal/pkg/config"
	"github.com/liuynx/Tandem/internal/repository"
	"github.com/liuynx/Tandem/internal/schema"
	"github.com/liuynx/Tandem/internal/service"
)

var (
	cfgFile string
	cfg     *config.Config
	db      *repository.Database
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tandem",
		Short: "Tandem - 每周关系建议生成引擎",
		Long:  `Tandem 根据双方每周状态问卷和注册偏好，为每个类目挑选可行、相关、不重样的本周建议。`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// 加载配置
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				slog.Error("加载配置失败", "error", err)
				os.Exit(1)
			}
			config.SetupLogger(cfg.App.LogLevel)

			// 初始化数据库
			db, err = repository.NewDatabase(cfg.Storage.DBPath)
			if err != nil {
				slog.Error("初始化数据库失败", "error", err)
				os.Exit(1)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if db != nil {
				db.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")

	// 添加子命令
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(checkinCmd())
	rootCmd.AddCommand(suggestionsCmd())
	rootCmd.AddCommand(categoriesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newGenerator 按配置组装生成编排器
func newGenerator() (*service.Generator, error) {
	cat, err := catalog.NewRepository(cfg.Catalog.Dir)
	if err != nil {
		return nil, err
	}

	statusRepo := repository.NewStatusRepository(db.DB)
	relationshipRepo := repository.NewRelationshipRepository(db.DB)
	profileRepo := repository.NewProfileRepository(db.DB)
	hintRepo := repository.NewHintRepository(db.DB)
	suggestionRepo := repository.NewSuggestionRepository(db.DB)

	builder := service.NewContextBuilder(statusRepo, relationshipRepo, profileRepo, hintRepo, suggestionRepo)
	selector := service.NewSelector(&service.SelectorConfig{
		PerCategory:    cfg.Suggest.PerCategory,
		RelevanceFloor: cfg.Suggest.RelevanceFloor,
		PoolSize:       cfg.Suggest.PoolSize,
		Seed:           cfg.Suggest.RandomSeed,
	})

	return service.NewGenerator(
		builder,
		cat,
		service.NewFeasibilityPolicy(),
		service.NewScorer(),
		selector,
		service.NewPersonalizer(),
		suggestionRepo,
		nil,
		&service.GeneratorConfig{ReuseThreshold: cfg.Suggest.ReuseThreshold},
	), nil
}

// generateCmd 生成本周建议
func generateCmd() *cobra.Command {
	var userID string
	var relationshipID string
	var weekStart string
	var regenerate bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "为某用户生成本周建议",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if userID == "" {
				fmt.Println("⚠️  需要指定 --user")
				os.Exit(1)
			}

			// 未指定关系时按成员反查
			if relationshipID == "" {
				relRepo := repository.NewRelationshipRepository(db.DB)
				rel, err := relRepo.GetByMember(ctx, userID)
				if err != nil {
					fmt.Printf("❌ 查询关系失败: %v\n", err)
					os.Exit(1)
				}
				if rel == nil {
					fmt.Println("⚠️  该用户没有活跃关系，请用 --relationship 指定")
					os.Exit(1)
				}
				relationshipID = rel.ID
			}

			gen, err := newGenerator()
			if err != nil {
				fmt.Printf("❌ 初始化失败: %v\n", err)
				os.Exit(1)
			}

			resp, err := gen.Generate(ctx, service.GenerateRequest{
				UserID:         userID,
				RelationshipID: relationshipID,
				WeekStart:      weekStart,
				Regenerate:     regenerate,
			})
			if err != nil {
				fmt.Printf("❌ 生成失败: %v\n", err)
				os.Exit(1)
			}

			if resp.Reused {
				fmt.Println("♻️  本周已有建议，直接复用")
			} else {
				fmt.Println("✅ 已生成本周建议")
			}
			printSuggestions(resp.Suggestions)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "用户 ID")
	cmd.Flags().StringVarP(&relationshipID, "relationship", "r", "", "关系 ID (空则按成员反查)")
	cmd.Flags().StringVar(&weekStart, "week", "", "周起始日期 YYYY-MM-DD (空取当前周)")
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "忽略已有建议，强制重新生成")

	return cmd
}

// checkinCmd 提交每周状态问卷
func checkinCmd() *cobra.Command {
	var userID string
	var weekStart string
	var availableTime string
	var capacity string
	var stress string
	var energy string
	var schedule string
	var challenges []string
	var notes string

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "提交每周状态问卷",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if userID == "" {
				fmt.Println("⚠️  需要指定 --user")
				os.Exit(1)
			}

			week, err := service.NormalizeWeekStart(weekStart)
			if err != nil {
				fmt.Printf("❌ 周起始日期无效: %v\n", err)
				os.Exit(1)
			}

			statusRepo := repository.NewStatusRepository(db.DB)
			err = statusRepo.Upsert(ctx, &schema.WeeklyStatus{
				UserID:            userID,
				WeekStart:         week,
				AvailableTime:     availableTime,
				EmotionalCapacity: capacity,
				StressLevel:       stress,
				EnergyLevel:       energy,
				WorkSchedule:      schedule,
				Challenges:        schema.JSONArray(challenges),
				Notes:             notes,
			})
			if err != nil {
				fmt.Printf("❌ 保存状态失败: %v\n", err)
				os.Exit(1)
			}

			fmt.Printf("✅ 已记录 %s 这一周的状态\n", week)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "用户 ID")
	cmd.Flags().StringVar(&weekStart, "week", "", "周起始日期 YYYY-MM-DD (空取当前周)")
	cmd.Flags().StringVar(&availableTime, "time", "moderate", "可用时间: very_limited/limited/moderate/plenty")
	cmd.Flags().StringVar(&capacity, "capacity", "moderate", "情绪容量: low/moderate/high")
	cmd.Flags().StringVar(&stress, "stress", "moderate", "压力水平: low/moderate/high")
	cmd.Flags().StringVar(&energy, "energy", "moderate", "精力水平: low/moderate/high")
	cmd.Flags().StringVar(&schedule, "schedule", "full_time", "工作安排: full_time/part_time/student/flexible/unemployed")
	cmd.Flags().StringSliceVar(&challenges, "challenge", nil, "本周困扰 (可多次指定)")
	cmd.Flags().StringVar(&notes, "notes", "", "自由备注")

	return cmd
}

// suggestionsCmd 查看某周建议
func suggestionsCmd() *cobra.Command {
	var userID string
	var weekStart string

	cmd := &cobra.Command{
		Use:   "suggestions",
		Short: "查看某周已生成的建议",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if userID == "" {
				fmt.Println("⚠️  需要指定 --user")
				os.Exit(1)
			}

			week, err := service.NormalizeWeekStart(weekStart)
			if err != nil {
				fmt.Printf("❌ 周起始日期无效: %v\n", err)
				os.Exit(1)
			}

			suggestionRepo := repository.NewSuggestionRepository(db.DB)
			suggestions, err := suggestionRepo.GetByUserWeek(ctx, userID, week)
			if err != nil {
				fmt.Printf("❌ 查询失败: %v\n", err)
				os.Exit(1)
			}

			if len(suggestions) == 0 {
				fmt.Printf("📚 %s 这一周还没有建议\n", week)
				fmt.Println("   先用 'tandem checkin' 提交状态，再 'tandem generate' 生成")
				return
			}

			fmt.Printf("📅 %s 这一周的建议\n", week)
			printSuggestions(suggestions)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "用户 ID")
	cmd.Flags().StringVar(&weekStart, "week", "", "周起始日期 YYYY-MM-DD (空取当前周)")

	return cmd
}

// categoriesCmd 查看类目
func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "查看建议类目与模板数量",
		Run: func(cmd *cobra.Command, args []string) {
			cat, err := catalog.NewRepository(cfg.Catalog.Dir)
			if err != nil {
				fmt.Printf("❌ 加载模板库失败: %v\n", err)
				os.Exit(1)
			}

			categories := cat.ListCategories()
			fmt.Printf("🗂  共 %d 个类目\n", len(categories))
			fmt.Println("═══════════════════════════════════════")
			for _, c := range categories {
				tpls := cat.ListTemplates(c.ID)
				fmt.Printf("\n• %s (%s)\n", c.DisplayName, c.ID)
				fmt.Printf("  时长 %d-%d 分钟 | 投入 %s | 容量 %s | 模板 %d 个\n",
					c.MinTimeMinutes, c.MaxTimeMinutes, c.EffortLevel, c.CapacityRequired, len(tpls))
				if len(c.LoveLanguageTags) > 0 {
					fmt.Printf("  爱之语: %s\n", strings.Join(c.LoveLanguageTags, ", "))
				}
			}
			fmt.Println("\n═══════════════════════════════════════")
		},
	}
}

// printSuggestions 按类目打印建议列表
func printSuggestions(suggestions []schema.Suggestion) {
	fmt.Println("═══════════════════════════════════════")
	lastCategory := ""
	for _, s := range suggestions {
		if s.CategoryID != lastCategory {
			fmt.Printf("\n🗂  %s\n", s.CategoryID)
			lastCategory = s.CategoryID
		}
		mark := " "
		if s.Completed {
			mark = "✔"
		} else if s.Selected {
			mark = "◉"
		}
		fmt.Printf("  [%s] %s (≈%d 分钟, %s, 置信 %.2f)\n",
			mark, s.Title, s.TimeEstimateMinutes, s.BestTiming, s.ConfidenceScore)
		if s.Rationale != "" {
			fmt.Printf("      %s\n", s.Rationale)
		}
	}
	fmt.Println("\n═══════════════════════════════════════")
}
