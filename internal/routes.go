package internal

import (
	"clanwatch/internal/controllers"
	"clanwatch/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, bindingController *controllers.BindingController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/clan", http.HandlerFunc(apiController.GetClan))
	routers.Get("/player", http.HandlerFunc(apiController.GetPlayer))
	routers.Get("/war", http.HandlerFunc(apiController.GetWar))
	routers.Get("/members", http.HandlerFunc(apiController.GetMembers))
	routers.Get("/activity", http.HandlerFunc(apiController.GetActivity))
	routers.Get("/activity/players", http.HandlerFunc(apiController.GetPlayerActivity))
	routers.Get("/raid", http.HandlerFunc(apiController.GetRaid))
	routers.Get("/games", http.HandlerFunc(apiController.GetClanGames))
	routers.Get("/nextwar", http.HandlerFunc(apiController.GetNextWar))

	routers.Get("/bindings", http.HandlerFunc(bindingController.List))
	routers.Post("/bindings", http.HandlerFunc(bindingController.Bind))
	routers.Delete("/bindings", http.HandlerFunc(bindingController.Unbind))
	return routers
}
