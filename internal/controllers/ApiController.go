package controllers

import (
	"clanwatch/internal/providers"
	"clanwatch/internal/services"
	"clanwatch/internal/structures"
	"clanwatch/internal/upstream"
	"net/http"
	"strconv"
)

type ApiController struct {
	logger     providers.Logger
	client     upstream.ClientInterface
	service    services.AggregationServiceInterface
	defaultTag string
}

func NewApiController(conf *structures.Config, logger providers.Logger, client upstream.ClientInterface, service services.AggregationServiceInterface) *ApiController {
	return &ApiController{
		logger:     logger,
		client:     client,
		service:    service,
		defaultTag: conf.Upstream.ClanTag,
	}
}

// clanTag reads ?tag= and falls back to the configured clan. It writes the
// error response itself and reports false when the handler must stop.
func (ac *ApiController) clanTag(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("tag")
	if raw == "" {
		raw = ac.defaultTag
	}
	if raw == "" {
		writeBadRequest(w, "tag is required")
		return "", false
	}
	tag, err := upstream.NormalizeTag(raw)
	if err != nil {
		writeUpstreamError(w, ac.logger, r, err)
		return "", false
	}
	return tag, true
}

func (ac *ApiController) respond(w http.ResponseWriter, r *http.Request, payload any, err error) {
	if err != nil {
		writeUpstreamError(w, ac.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (ac *ApiController) GetClan(w http.ResponseWriter, r *http.Request) {
	tag, ok := ac.clanTag(w, r)
	if !ok {
		return
	}
	clan, err := ac.client.GetClan(r.Context(), tag)
	ac.respond(w, r, clan, err)
}

func (ac *ApiController) GetPlayer(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tag")
	if raw == "" {
		writeBadRequest(w, "tag is required")
		return
	}
	player, err := ac.client.GetPlayer(r.Context(), raw)
	ac.respond(w, r, player, err)
}

func (ac *ApiController) GetWar(w http.ResponseWriter, r *http.Request) {
	tag, ok := ac.clanTag(w, r)
	if !ok {
		return
	}
	war, err := ac.client.GetWar(r.Context(), tag)
	ac.respond(w, r, war, err)
}

func (ac *ApiController) GetMembers(w http.ResponseWriter, r *http.Request) {
	tag, ok := ac.clanTag(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "limit must be an integer")
			return
		}
		limit = n
	}
	ranking, err := ac.service.GetMemberRanking(r.Context(), tag, limit)
	ac.respond(w, r, ranking, err)
}

func (ac *ApiController) GetActivity(w http.ResponseWriter, r *http.Request) {
	tag, ok := ac.clanTag(w, r)
	if !ok {
		return
	}
	report, err := ac.service.GetActivityReport(r.Context(), tag)
	ac.respond(w, r, report, err)
}

func (ac *ApiController) GetPlayerActivity(w http.ResponseWriter, r *http.Request) {
	tag, ok := ac.clanTag(w, r)
	if !ok {
		return
	}
	report, err := ac.service.GetPlayerActivity(r.Context(), tag)
	ac.respond(w, r, report, err)
}

func (ac *ApiController) GetNextWar(w http.ResponseWriter, r *http.Request) {
	tag, ok := ac.clanTag(w, r)
	if !ok {
		return
	}
	report, err := ac.service.GetWarReadiness(r.Context(), tag)
	ac.respond(w, r, report, err)
}

// GetRaid always answers 200; an unreadable season is reported as unavailable.
func (ac *ApiController) GetRaid(w http.ResponseWriter, r *http.Request) {
	tag, ok := ac.clanTag(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ac.service.GetRaidSnapshot(r.Context(), tag))
}

func (ac *ApiController) GetClanGames(w http.ResponseWriter, r *http.Request) {
	tag, ok := ac.clanTag(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ac.service.GetClanGamesSnapshot(r.Context(), tag))
}
