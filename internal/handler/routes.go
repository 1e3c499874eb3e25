package handler

import (
	"net/http"

	"wallboard/internal/security"

	"github.com/go-chi/chi/v5"
)

// Handlers : everything the router mounts
type Handlers struct {
	Auth     *AuthenticationHandler
	Boards   *BoardHandler
	Problems *ProblemHandler
	Access   *AccessHandler
}

// RegisterRoutes : mounts the API on r. Board reads stay open to anyone holding the id,
// writes go through the services' own checks.
func RegisterRoutes(r chi.Router, h Handlers, tokens security.RefreshTokenFinder, jwtService *security.JWTService) {
	requireAuth := security.JWTMiddleware(tokens, jwtService)
	optionalAuth := security.OptionalJWTMiddleware(tokens, jwtService)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/", h.Auth.Login)
		r.Post("/signup", h.Auth.SignUp)
		r.Post("/anonymous", h.Auth.SignInAnonymously)
		r.Post("/refresh", h.Auth.RefreshToken)
		r.Delete("/{token}", h.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", h.Auth.GetCurrentUser)
			r.Head("/me", h.Auth.GetCurrentUser)
		})
	})

	r.Route("/api/boards", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", h.Boards.UploadBoard)
			r.Get("/", h.Boards.ListOwnedBoards)
			r.Get("/shared", h.Boards.ListSharedBoards)
			r.Get("/stream", h.Boards.StreamBoards)
		})

		r.Route("/{board_id}", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(optionalAuth)
				r.Get("/", h.Boards.GetBoard)
				r.Head("/", h.Boards.GetBoard)
				r.Get("/access", h.Boards.GetBoardAccess)
				r.Get("/events", h.Boards.StreamBoardEvents)

				r.Get("/problems", h.Problems.ListProblems)
				r.Post("/problems", h.Problems.CreateProblem)
				r.Get("/problems/{problem_id}", h.Problems.GetProblem)
				r.Put("/problems/{problem_id}", h.Problems.UpdateProblem)
				r.Get("/problems/{problem_id}/overlay.png", h.Problems.GetOverlay)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Delete("/problems/{problem_id}", h.Problems.DeleteProblem)
				r.Get("/permissions", h.Access.ListGrants)
				r.Post("/permissions", h.Access.GrantAccess)
				r.Delete("/permissions/{user_uuid}", h.Access.RevokeAccess)
				r.Post("/codes", h.Access.CreateAccessCode)
			})
		})
	})

	r.Route("/api/codes", func(r chi.Router) {
		r.With(optionalAuth).Post("/{code}/redeem", h.Access.RedeemCode)
		r.With(requireAuth).Post("/promote", h.Access.PromoteGuest)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
