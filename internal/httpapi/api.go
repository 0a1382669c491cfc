package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/liuynx/Tandem/internal/catalog"
	"github.com/liuynx/Tandem/internal/dto"
	"github.com/liuynx/Tandem/internal/eventbus"
	"github.com/liuynx/Tandem/internal/pkg/config"
	"github.com/liuynx/Tandem/internal/repository"
	"github.com/liuynx/Tandem/internal/schema"
	"github.com/liuynx/Tandem/internal/service"
)

// Deps API 依赖集合，由启动层装配
type Deps struct {
	Hub              *eventbus.Hub
	Generator        *service.Generator
	Catalog          *catalog.Repository
	StatusRepo       *repository.StatusRepository
	ProfileRepo      *repository.ProfileRepository
	RelationshipRepo *repository.RelationshipRepository
	HintRepo         *repository.HintRepository
	SuggestionRepo   *repository.SuggestionRepository
}

type apiServer struct {
	cfg       *config.Config
	deps      *Deps
	startTime time.Time
}

func newAPI(cfg *config.Config, deps *Deps) *apiServer {
	return &apiServer{
		cfg:       cfg,
		deps:      deps,
		startTime: time.Now(),
	}
}

func (a *apiServer) registerJSONRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/suggest/generate", a.handleGenerate)
	mux.HandleFunc("GET /api/suggestions", a.handleListSuggestions)
	mux.HandleFunc("POST /api/suggestions/{id}/select", a.handleSelectSuggestion)
	mux.HandleFunc("POST /api/suggestions/{id}/complete", a.handleCompleteSuggestion)
	mux.HandleFunc("POST /api/checkins", a.handleCheckin)
	mux.HandleFunc("POST /api/profiles", a.handleUpsertProfile)
	mux.HandleFunc("POST /api/relationships", a.handleCreateRelationship)
	mux.HandleFunc("POST /api/hints", a.handleCreateHint)
	mux.HandleFunc("POST /api/hints/{id}/deactivate", a.handleDeactivateHint)
	mux.HandleFunc("GET /api/catalog/categories", a.handleListCategories)
}

func (a *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"name":       a.cfg.App.Name,
		"version":    a.cfg.App.Version,
		"started_at": a.startTime.Format(time.RFC3339),
	})
}

// handleGenerate 为 (用户, 周) 生成建议。
// 缺周状态问卷返回 412，关系不存在返回 404，其余生成内部的失败不会让请求报错。
func (a *apiServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体不合法")
		return
	}
	if req.UserID == "" || req.RelationshipID == "" {
		writeError(w, http.StatusBadRequest, "user_id 与 relationship_id 必填")
		return
	}

	resp, err := a.deps.Generator.Generate(r.Context(), service.GenerateRequest{
		UserID:         req.UserID,
		RelationshipID: req.RelationshipID,
		WeekStart:      req.WeekStart,
		Regenerate:     req.Regenerate,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeeklyStatusMissing):
			writeError(w, http.StatusPreconditionFailed, "该周的状态问卷还没有填写")
		case errors.Is(err, service.ErrRelationshipNotFound),
			errors.Is(err, service.ErrUserNotInRelationship):
			writeError(w, http.StatusNotFound, "关系记录不存在")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	out := dto.GenerateResponseDTO{
		Suggestions:    make([]dto.SuggestionDTO, 0, len(resp.Suggestions)),
		CategoryCounts: resp.CategoryCounts,
		GeneratedAt:    resp.GeneratedAt.Format(time.RFC3339),
		Reused:         resp.Reused,
	}
	for i := range resp.Suggestions {
		out.Suggestions = append(out.Suggestions, toSuggestionDTO(&resp.Suggestions[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *apiServer) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id 必填")
		return
	}
	weekStart, err := service.NormalizeWeekStart(r.URL.Query().Get("week_start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "week_start 不合法")
		return
	}

	suggestions, err := a.deps.SuggestionRepo.GetByUserWeek(r.Context(), userID, weekStart)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]dto.SuggestionDTO, 0, len(suggestions))
	for i := range suggestions {
		out = append(out, toSuggestionDTO(&suggestions[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"week_start":  weekStart,
		"suggestions": out,
	})
}

func (a *apiServer) handleSelectSuggestion(w http.ResponseWriter, r *http.Request) {
	a.flipSuggestionFlag(w, r, a.deps.SuggestionRepo.SetSelected)
}

func (a *apiServer) handleCompleteSuggestion(w http.ResponseWriter, r *http.Request) {
	a.flipSuggestionFlag(w, r, a.deps.SuggestionRepo.SetCompleted)
}

func (a *apiServer) handleCheckin(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckinRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体不合法")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id 必填")
		return
	}
	weekStart, err := service.NormalizeWeekStart(req.WeekStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "week_start 不合法")
		return
	}

	status := &schema.WeeklyStatus{
		UserID:            req.UserID,
		WeekStart:         weekStart,
		AvailableTime:     req.AvailableTime,
		EmotionalCapacity: req.EmotionalCapacity,
		StressLevel:       req.StressLevel,
		EnergyLevel:       req.EnergyLevel,
		WorkSchedule:      req.WorkSchedule,
		Challenges:        schema.JSONArray(req.Challenges),
		Notes:             req.Notes,
	}
	if err := a.deps.StatusRepo.Upsert(r.Context(), status); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "week_start": weekStart})
}

func (a *apiServer) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体不合法")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id 必填")
		return
	}

	profile := &schema.OnboardingProfile{
		UserID:                req.UserID,
		DisplayName:           req.DisplayName,
		LoveLanguagePrimary:   req.LoveLanguagePrimary,
		LoveLanguageSecondary: req.LoveLanguageSecondary,
		LoveLanguages:         schema.JSONArray(req.LoveLanguages),
		FavoriteActivities:    schema.JSONArray(req.FavoriteActivities),
		CommunicationStyle:    req.CommunicationStyle,
		DateStyle:             req.DateStyle,
		PlanningStyle:         req.PlanningStyle,
		GiftBudget:            req.GiftBudget,
	}
	if err := a.deps.ProfileRepo.Upsert(r.Context(), profile); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *apiServer) handleCreateRelationship(w http.ResponseWriter, r *http.Request) {
	var req dto.RelationshipRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体不合法")
		return
	}
	if req.MemberAID == "" || req.MemberBID == "" || req.MemberAID == req.MemberBID {
		writeError(w, http.StatusBadRequest, "需要两名不同成员")
		return
	}

	rel := &schema.Relationship{
		ID:             uuid.NewString(),
		MemberAID:      req.MemberAID,
		MemberBID:      req.MemberBID,
		LivingTogether: req.LivingTogether,
		DurationMonths: req.DurationMonths,
		Status:         "active",
		DateFrequency:  req.DateFrequency,
	}
	if err := a.deps.RelationshipRepo.Create(r.Context(), rel); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": rel.ID})
}

func (a *apiServer) handleCreateHint(w http.ResponseWriter, r *http.Request) {
	var req dto.HintRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体不合法")
		return
	}
	if req.AuthorID == "" || req.HintText == "" {
		writeError(w, http.StatusBadRequest, "author_id 与 hint_text 必填")
		return
	}

	hint := &schema.PartnerHint{
		RelationshipID: req.RelationshipID,
		AuthorID:       req.AuthorID,
		HintType:       req.HintType,
		HintText:       req.HintText,
		Active:         true,
	}
	if err := a.deps.HintRepo.Create(r.Context(), hint); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": hint.ID})
}

func (a *apiServer) handleDeactivateHint(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id 不合法")
		return
	}
	if err := a.deps.HintRepo.Deactivate(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *apiServer) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories := a.deps.Catalog.ListCategories()
	out := make([]dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryDTO{
			ID:               c.ID,
			DisplayName:      c.DisplayName,
			MinTimeMinutes:   c.MinTimeMinutes,
			MaxTimeMinutes:   c.MaxTimeMinutes,
			EffortLevel:      c.EffortLevel,
			CapacityRequired: c.CapacityRequired,
			LoveLanguageTags: c.LoveLanguageTags,
			TemplateCount:    len(a.deps.Catalog.ListTemplates(c.ID)),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

// flipSuggestionFlag 勾选/完成标记的公共处理。标记翻转属于外层 API 的职责，
// 生成流程不读取这些标记。
func (a *apiServer) flipSuggestionFlag(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, id int64, v bool) error) {
	id, err := parseInt64Param(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id 不合法")
		return
	}

	existing, err := a.deps.SuggestionRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "建议不存在")
		return
	}

	req := dto.FlagRequestDTO{Value: true}
	_ = readJSON(r, &req) // 空请求体按 true 处理

	if err := set(r.Context(), id, req.Value); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "value": req.Value})
}
