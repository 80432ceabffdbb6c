package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/zeeshanfreelancer/memegenerator/controllers"
)

func MemeRoute(g *echo.Group, mc *controllers.MemeController, auth echo.MiddlewareFunc) {
	g.GET("/memes", mc.ListMemes)
	g.GET("/memes/mine", mc.ListMyMemes, auth)
	g.GET("/memes/:id", mc.GetMeme)
	g.POST("/memes", mc.CreateMeme, auth)
	g.POST("/memes/:id/like", mc.ToggleLike, auth)
	g.DELETE("/memes/:id", mc.DeleteMeme, auth)
}
