package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/qrave1/RoomMeet/internal/application/config"
	"github.com/qrave1/RoomMeet/internal/infra/ports/http/handlers"
	"github.com/qrave1/RoomMeet/internal/infra/ports/http/middleware"
)

func New(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	roomHandler *handlers.RoomHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())

	if cfg.Debug {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.Domain},
			AllowCredentials: true,
		}))
	}

	api := e.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		v1 := api.Group("/v1")
		v1.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		{
			v1.GET("/me", authHandler.GetMe)

			rooms := v1.Group("/rooms")
			{
				rooms.POST("", roomHandler.CreateRoomHandler)
				rooms.POST("/reserve", roomHandler.ReserveRoomHandler)
				rooms.POST("/join", roomHandler.JoinRoomHandler)

				rooms.GET("/title/:title", roomHandler.GetRoomByTitleHandler)
				rooms.GET("/session/:session", roomHandler.GetRoomBySessionHandler)
				rooms.GET("/:id", roomHandler.GetRoomHandler)
				rooms.GET("/:id/joins", roomHandler.ListJoinsHandler)
				rooms.DELETE("/:id", roomHandler.DeleteRoomHandler)
			}
		}
	}

	return e
}
