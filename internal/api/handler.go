package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"matchdata-scraper/internal/logging"
	"matchdata-scraper/internal/model"
	"matchdata-scraper/internal/workflow"
)

const defaultRecentCount = 3

type MatchService interface {
	model.Fetcher[model.MatchData]
	FetchMatchByID(ctx context.Context, id string) model.MatchData
	FetchShots(ctx context.Context, matchURL string) model.Shotmap
	RecentFixtures(ctx context.Context, team string, count int) ([]string, error)
}

type ShotmapService interface {
	model.Fetcher[model.Shotmap]
}

type PlayerService interface {
	model.Fetcher[model.PlayerProfile]
}

type WorkflowService interface {
	Compare(ctx context.Context, urlA, urlB string) (workflow.Comparison, error)
	RecentForm(ctx context.Context, team string, count int) ([]model.MatchData, error)
}

type Handler struct {
	matches   MatchService
	shotmaps  ShotmapService
	players   PlayerService
	workflows WorkflowService
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(matches MatchService, shotmaps ShotmapService, players PlayerService, workflows WorkflowService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		matches:   matches,
		shotmaps:  shotmaps,
		players:   players,
		workflows: workflows,
		logger:    logger,
		validator: validator.New(),
	}
}

type urlQuery struct {
	URL string `validate:"required,url,max=2048"`
}

type matchIDPath struct {
	ID string `validate:"required,numeric,max=20"`
}

type recentQuery struct {
	Name   string `validate:"required,max=100"`
	Count  int    `validate:"min=1,max=10"`
	Expand bool
}

type compareQuery struct {
	A    string `validate:"required,url,max=2048"`
	B    string `validate:"required,url,max=2048,nefield=A"`
	Home string `validate:"required_with=Away,omitempty,numeric"`
	Away string `validate:"required_with=Home,omitempty,numeric"`
}

type recentResponse struct {
	Team     string            `json:"team"`
	MatchIDs []string          `json:"matchIds"`
	Matches  []model.MatchData `json:"matches,omitempty"`
}

type compareResponse struct {
	Comparison workflow.Comparison `json:"comparison"`
	Selection  *workflow.Selection `json:"selection,omitempty"`
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return errors.Wrapf(ErrInvalidInput, "validation failed: %v", err)
	}
	return nil
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := urlQuery{URL: strings.TrimSpace(r.URL.Query().Get("url"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, h.matches.Fetch(ctx, req.URL))
}

func (h *Handler) GetMatchByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := matchIDPath{ID: mux.Vars(r)["id"]}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, h.matches.FetchMatchByID(ctx, req.ID))
}

func (h *Handler) GetShotmap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := urlQuery{URL: strings.TrimSpace(r.URL.Query().Get("url"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, h.shotmaps.Fetch(ctx, req.URL))
}

func (h *Handler) GetShots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := urlQuery{URL: strings.TrimSpace(r.URL.Query().Get("url"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, h.matches.FetchShots(ctx, req.URL))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := urlQuery{URL: strings.TrimSpace(r.URL.Query().Get("url"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, h.players.Fetch(ctx, req.URL))
}

func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	req := recentQuery{Name: strings.TrimSpace(query.Get("name")), Count: defaultRecentCount}
	if raw := strings.TrimSpace(query.Get("count")); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.Wrapf(ErrInvalidInput, "count %q is not a number", raw))
			return
		}
		req.Count = count
	}
	if raw := strings.TrimSpace(query.Get("expand")); raw != "" {
		expand, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, errors.Wrapf(ErrInvalidInput, "expand %q is not a boolean", raw))
			return
		}
		req.Expand = expand
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}

	resp := recentResponse{Team: req.Name}
	if req.Expand {
		matches, err := h.workflows.RecentForm(ctx, req.Name, req.Count)
		if err != nil {
			logging.FromContext(ctx).Warn("recent form failed", "team", req.Name, "error", err)
			writeError(w, err)
			return
		}
		resp.Matches = matches
		resp.MatchIDs = make([]string, 0, len(matches))
		for _, m := range matches {
			resp.MatchIDs = append(resp.MatchIDs, m.MatchID)
		}
		writeSuccess(w, resp)
		return
	}

	ids, err := h.matches.RecentFixtures(ctx, req.Name, req.Count)
	if err != nil {
		logging.FromContext(ctx).Warn("recent fixtures failed", "team", req.Name, "error", err)
		writeError(w, err)
		return
	}
	resp.MatchIDs = ids
	writeSuccess(w, resp)
}

func (h *Handler) GetCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	req := compareQuery{
		A:    strings.TrimSpace(query.Get("a")),
		B:    strings.TrimSpace(query.Get("b")),
		Home: strings.TrimSpace(query.Get("home")),
		Away: strings.TrimSpace(query.Get("away")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}

	cmp, err := h.workflows.Compare(ctx, req.A, req.B)
	if err != nil {
		logging.FromContext(ctx).Warn("comparison failed", "a", req.A, "b", req.B, "error", err)
		writeError(w, err)
		return
	}

	resp := compareResponse{Comparison: cmp}
	if req.Home != "" {
		sel, err := cmp.Select(model.TeamID(req.Home), model.TeamID(req.Away))
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Selection = &sel
	}
	writeSuccess(w, resp)
}
