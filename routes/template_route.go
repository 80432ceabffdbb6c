package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/zeeshanfreelancer/memegenerator/controllers"
)

func TemplateRoute(g *echo.Group, tc *controllers.TemplateController, auth, optionalAuth echo.MiddlewareFunc) {
	g.GET("/templates", tc.ListTemplates)
	g.GET("/templates/:id", tc.GetTemplate, optionalAuth)
	g.POST("/templates", tc.CreateTemplate, auth)
	g.DELETE("/templates/:id", tc.ArchiveTemplate, auth)
	g.POST("/templates/:id/favorite", tc.ToggleFavorite, auth)
}
