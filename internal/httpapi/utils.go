package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/liuynx/Tandem/internal/dto"
	"github.com/liuynx/Tandem/internal/schema"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func readJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func parseInt64Param(value string) (int64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, fmt.Errorf("参数为空")
	}
	return strconv.ParseInt(v, 10, 64)
}

// toSuggestionDTO 建议记录转 API 契约
func toSuggestionDTO(s *schema.Suggestion) dto.SuggestionDTO {
	steps := make([]dto.SuggestionStepDTO, 0, len(s.DetailedSteps))
	for _, st := range s.DetailedSteps {
		steps = append(steps, dto.SuggestionStepDTO{
			Step:             st.Step,
			Action:           st.Action,
			Tip:              st.Tip,
			EstimatedMinutes: st.EstimatedMinutes,
		})
	}
	return dto.SuggestionDTO{
		ID:                  s.ID,
		CategoryID:          s.CategoryID,
		SourceType:          s.SourceType,
		Title:               s.Title,
		Description:         s.Description,
		Steps:               steps,
		TimeEstimateMinutes: s.TimeEstimateMinutes,
		EffortLevel:         s.EffortLevel,
		BestTiming:          s.BestTiming,
		LoveLanguages:       []string(s.LoveLanguageAlign),
		Rationale:           s.Rationale,
		PartnerHint:         s.PartnerHint,
		PartnerPrefMatch:    s.PartnerPrefMatch,
		ConfidenceScore:     s.ConfidenceScore,
		Selected:            s.Selected,
		Completed:           s.Completed,
		WeekStart:           s.WeekStart,
	}
}

// handleSSE 事件流：生成诊断事件实时推给客户端
func (a *apiServer) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "stream not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	sub := a.deps.Hub.Subscribe(ctx, 32)

	// initial event
	_, _ = io.WriteString(w, "event: ready\n")
	_, _ = io.WriteString(w, "data: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, "event: ping\n")
			_, _ = io.WriteString(w, "data: {}\n\n")
			flusher.Flush()
		case evt, ok := <-sub:
			if !ok {
				return
			}
			b, _ := json.Marshal(evt)
			_, _ = io.WriteString(w, "event: "+sanitizeSSEName(evt.Type)+"\n")
			_, _ = io.WriteString(w, "data: ")
			_, _ = w.Write(b)
			_, _ = io.WriteString(w, "\n\n")
			flusher.Flush()
		}
	}
}

func sanitizeSSEName(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return "message"
	}
	n = strings.ReplaceAll(n, "\n", "")
	n = strings.ReplaceAll(n, "\r", "")
	return n
}
