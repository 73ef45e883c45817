package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddleware)

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/user/refresh", standardMiddleware.ThenFunc(app.userHandler.RefreshTokens))
	mux.Post("/user/send_code", standardMiddleware.ThenFunc(app.userHandler.SendVerificationCode))
	mux.Post("/user/verify_phone", standardMiddleware.ThenFunc(app.userHandler.VerifyPhone))
	mux.Get("/user/:id", authMiddleware.ThenFunc(app.userHandler.GetUserByID))
	mux.Put("/user/:id", authMiddleware.ThenFunc(app.userHandler.UpdateUser))
	mux.Put("/user/:id/password", authMiddleware.ThenFunc(app.userHandler.UpdatePassword))
	mux.Del("/user/:id", authMiddleware.ThenFunc(app.userHandler.DeactivateUser))
	mux.Post("/user/:id/document", authMiddleware.ThenFunc(app.userHandler.UploadProofDocument))

	// Listings
	mux.Post("/listing", authMiddleware.ThenFunc(app.listingHandler.CreateListing))
	mux.Get("/listing/get", authMiddleware.ThenFunc(app.listingHandler.GetListings))
	mux.Get("/listing/user/:user_id", authMiddleware.ThenFunc(app.listingHandler.GetListingsByUser))
	mux.Get("/listing/stats/:user_id", authMiddleware.ThenFunc(app.listingHandler.GetStatsSummary))
	mux.Get("/listing/:id", authMiddleware.ThenFunc(app.listingHandler.GetListingByID))
	mux.Put("/listing/:id/status", authMiddleware.ThenFunc(app.listingHandler.UpdateStatus))

	// Applications
	mux.Post("/application", authMiddleware.ThenFunc(app.applicationHandler.SubmitApplication))
	mux.Put("/application/:id/decision", authMiddleware.ThenFunc(app.applicationHandler.DecideApplication))
	mux.Del("/application/:id", authMiddleware.ThenFunc(app.applicationHandler.CancelApplication))
	mux.Get("/application/listing/:listing_id", authMiddleware.ThenFunc(app.applicationHandler.GetApplicationsForListing))
	mux.Get("/application/user/:user_id", authMiddleware.ThenFunc(app.applicationHandler.GetApplicationsByUser))

	// Reviews and ratings
	mux.Post("/review", authMiddleware.ThenFunc(app.reviewHandler.CreateReview))
	mux.Get("/review/about/:user_id", authMiddleware.ThenFunc(app.reviewHandler.GetReviewsAbout))
	mux.Get("/review/by/:user_id", authMiddleware.ThenFunc(app.reviewHandler.GetReviewsBy))
	mux.Post("/review/:id/like", authMiddleware.ThenFunc(app.reviewHandler.LikeReview))
	mux.Post("/review/:id/dislike", authMiddleware.ThenFunc(app.reviewHandler.DislikeReview))
	mux.Get("/rating/top", standardMiddleware.ThenFunc(app.reviewHandler.GetTopUsers))
	mux.Get("/rating/:user_id", authMiddleware.ThenFunc(app.reviewHandler.GetUserRating))
	mux.Get("/stats/:user_id", authMiddleware.ThenFunc(app.reviewHandler.GetUserStats))

	// Dialog flows
	mux.Post("/dialog/start", authMiddleware.ThenFunc(app.dialogHandler.StartFlow))
	mux.Post("/dialog/event", authMiddleware.ThenFunc(app.dialogHandler.HandleEvent))

	// Push tokens
	mux.Post("/notify_tokens", authMiddleware.ThenFunc(app.deviceTokenHandler.CreateToken))
	mux.Del("/notify_tokens/:token", authMiddleware.ThenFunc(app.deviceTokenHandler.DeleteToken))

	// Websocket
	mux.Get("/ws", standardMiddleware.ThenFunc(app.WebSocketHandler))

	return standardMiddleware.Then(mux)
}
