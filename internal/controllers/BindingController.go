package controllers

import (
	"clanwatch/internal/models"
	"clanwatch/internal/providers"
	"clanwatch/internal/storage"
	"clanwatch/internal/upstream"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

type bindingRequest struct {
	GroupID     int64  `json:"group_id" validate:"required"`
	UserID      int64  `json:"user_id" validate:"required"`
	Tag         string `json:"tag" validate:"required"`
	DisplayName string `json:"display_name" validate:"maxLen:128"`
}

type deleteResponse struct {
	Removed bool `json:"removed"`
}

type BindingController struct {
	logger providers.Logger
	client upstream.ClientInterface
	store  storage.MembershipStoreInterface
}

func NewBindingController(logger providers.Logger, client upstream.ClientInterface, store storage.MembershipStoreInterface) *BindingController {
	return &BindingController{
		logger: logger,
		client: client,
		store:  store,
	}
}

func parseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// Bind checks the tag against the upstream before storing it, so only
// existing accounts are ever bound.
func (bc *BindingController) Bind(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req bindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	v := validate.Struct(&req)
	if !v.Validate() {
		writeBadRequest(w, v.Errors.One())
		return
	}

	tag, err := upstream.NormalizeTag(req.Tag)
	if err != nil {
		writeUpstreamError(w, bc.logger, r, err)
		return
	}
	player, err := bc.client.GetPlayer(r.Context(), tag)
	if err != nil {
		writeUpstreamError(w, bc.logger, r, err)
		return
	}

	name := req.DisplayName
	if name == "" {
		name = player.Name
	}
	binding := models.Binding{
		GroupID:     req.GroupID,
		UserID:      req.UserID,
		Tag:         tag,
		DisplayName: name,
		CreatedAt:   time.Now().UTC(),
	}
	if err := bc.store.UpsertBinding(r.Context(), binding); err != nil {
		bc.logger.Errorf(providers.TypePost, "Failed to store binding: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	// A re-bind keeps the original created_at, so answer with the stored row.
	stored, found, err := bc.store.GetBinding(r.Context(), req.GroupID, req.UserID)
	if err != nil || !found {
		bc.logger.Errorf(providers.TypePost, "Failed to read back binding for user %d in group %d: %v", req.UserID, req.GroupID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	bc.logger.Infof(providers.TypePost, "Bound user %d in group %d to %s", req.UserID, req.GroupID, tag)
	writeJSON(w, http.StatusCreated, stored)
}

func (bc *BindingController) Unbind(w http.ResponseWriter, r *http.Request) {
	groupID, ok := parseID(r, "group")
	if !ok {
		writeBadRequest(w, "group is required")
		return
	}
	userID, ok := parseID(r, "user")
	if !ok {
		writeBadRequest(w, "user is required")
		return
	}
	removed, err := bc.store.DeleteBinding(r.Context(), groupID, userID)
	if err != nil {
		bc.logger.Errorf(providers.TypePost, "Failed to delete binding: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Removed: removed})
}

// List returns all bindings of a group, or the single binding when ?user= is set.
func (bc *BindingController) List(w http.ResponseWriter, r *http.Request) {
	groupID, ok := parseID(r, "group")
	if !ok {
		writeBadRequest(w, "group is required")
		return
	}

	if r.URL.Query().Get("user") != "" {
		userID, ok := parseID(r, "user")
		if !ok {
			writeBadRequest(w, "user must be a non-zero integer")
			return
		}
		binding, found, err := bc.store.GetBinding(r.Context(), groupID, userID)
		if err != nil {
			bc.logger.Errorf(providers.TypeGet, "Failed to read binding: %s", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if !found {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "binding not found"})
			return
		}
		writeJSON(w, http.StatusOK, binding)
		return
	}

	bindings, err := bc.store.GetBindingsForGroup(r.Context(), groupID)
	if err != nil {
		bc.logger.Errorf(providers.TypeGet, "Failed to list bindings: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if bindings == nil {
		bindings = []models.Binding{}
	}
	writeJSON(w, http.StatusOK, bindings)
}
