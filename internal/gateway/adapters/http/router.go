// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	"sharenote/internal/gateway/adapters/http/auth"
	"sharenote/internal/gateway/adapters/http/middleware"
	"sharenote/internal/gateway/adapters/http/notes"
	"sharenote/internal/gateway/adapters/http/response"
	"sharenote/internal/gateway/ports/services"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, authService services.AuthService, notesService services.NotesService) {
	authHandler := auth.NewHandler(authService)
	notesHandler := notes.NewHandler(notesService)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Auth routes (публичные).
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/signup", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/token/refresh", authHandler.RefreshTokens)
	authRoutes.Post("/logout", authHandler.Logout)

	// Маршруты заметок (требуют авторизации).
	notesRoutes := apiV1.Group("/notes")
	notesRoutes.Use(middleware.NewAuthMiddleware(authService))
	notesRoutes.Post("/create", notesHandler.CreateNote)
	notesRoutes.Post("/share", notesHandler.ShareNote)
	notesRoutes.Get("/version-history/:id", notesHandler.NoteHistory)
	notesRoutes.Get("/", notesHandler.ListNotes)
	notesRoutes.Get("/:id", notesHandler.GetNote)
	notesRoutes.Put("/:id", notesHandler.UpdateNote)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return response.Fail(c, fiber.StatusNotFound, "Route not found")
	})
}
