package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hray3182/LedgerLine/internal/api/middleware"
	"github.com/hray3182/LedgerLine/internal/logger"
	"github.com/hray3182/LedgerLine/internal/models"
)

// ConfigHandler handles category and keyword endpoints.
type ConfigHandler struct {
	users   UserStore
	configs ConfigStore
	allowed []models.TransactionType
}

func NewConfigHandler(users UserStore, configs ConfigStore, allowed []models.TransactionType) *ConfigHandler {
	return &ConfigHandler{users: users, configs: configs, allowed: allowed}
}

type configResponse struct {
	Categories       []string                 `json:"categories"`
	Keywords         models.KeywordMap        `json:"keywords"`
	TransactionTypes []models.TransactionType `json:"transaction_types"`
}

type changeResponse struct {
	Changed []string `json:"changed"`
	Errors  []string `json:"errors"`
}

type categoriesRequest struct {
	Categories []string `json:"categories"`
}

type keywordsRequest struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// Get handles GET /api/config
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := currentUser(w, r, h.users, log)
	if !ok {
		return
	}

	cfg, err := h.configs.GetOrCreate(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load user config")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load user config")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, configResponse{
		Categories:       cfg.Categories,
		Keywords:         cfg.Keywords,
		TransactionTypes: h.allowed,
	})
}

// AddCategories handles POST /api/config/categories
func (h *ConfigHandler) AddCategories(w http.ResponseWriter, r *http.Request) {
	var req categoriesRequest
	h.edit(w, r, &req, func(cfg *models.UserConfig) ([]string, []string, error) {
		added, errs := cfg.AddCategories(req.Categories)
		return added, errs, nil
	})
}

// DeleteCategories handles DELETE /api/config/categories
func (h *ConfigHandler) DeleteCategories(w http.ResponseWriter, r *http.Request) {
	var req categoriesRequest
	h.edit(w, r, &req, func(cfg *models.UserConfig) ([]string, []string, error) {
		deleted, errs := cfg.DeleteCategories(req.Categories)
		return deleted, errs, nil
	})
}

// AddKeywords handles POST /api/config/keywords
func (h *ConfigHandler) AddKeywords(w http.ResponseWriter, r *http.Request) {
	var req keywordsRequest
	h.edit(w, r, &req, func(cfg *models.UserConfig) ([]string, []string, error) {
		return cfg.AddKeywords(req.Category, req.Keywords)
	})
}

// DeleteKeywords handles DELETE /api/config/keywords
func (h *ConfigHandler) DeleteKeywords(w http.ResponseWriter, r *http.Request) {
	var req keywordsRequest
	h.edit(w, r, &req, func(cfg *models.UserConfig) ([]string, []string, error) {
		return cfg.DeleteKeywords(req.Category, req.Keywords)
	})
}

// edit decodes req and applies change to the user's config under the store's
// lock. The config is written only when something changed.
func (h *ConfigHandler) edit(w http.ResponseWriter, r *http.Request, req interface{}, change func(*models.UserConfig) ([]string, []string, error)) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	userID, ok := currentUser(w, r, h.users, log)
	if !ok {
		return
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var changed, errs []string
	var rejected error
	err := h.configs.Edit(ctx, userID, func(cfg *models.UserConfig) (bool, error) {
		changed, errs, rejected = change(cfg)
		return rejected == nil && len(changed) > 0, nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to save user config")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save user config")
		return
	}
	if rejected != nil {
		middleware.WriteError(w, http.StatusNotFound, rejected.Error())
		return
	}

	if changed == nil {
		changed = []string{}
	}
	if errs == nil {
		errs = []string{}
	}
	middleware.WriteJSON(w, http.StatusOK, changeResponse{Changed: changed, Errors: errs})
}
