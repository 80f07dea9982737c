package main

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateToken godoc
//
//	@Summary		Issue admin API tokens
//	@Description	Exchanges basic-auth credentials for a JWT pair used on the partner admin endpoints
//	@Tags			Auth
//	@Produce		json
//	@Success		201	{object}	tokenResponse
//	@Failure		401	{object}	error
//	@Router			/auth/token [post]
func (app *application) createTokenHandler(w http.ResponseWriter, r *http.Request) {
	// basic auth already verified by the route middleware
	access, refresh, err := app.authenticator.GenerateTokens(app.config.auth.basic.user, "admin")
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshToken godoc
//
//	@Summary	Refresh an admin access token
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	tokenResponse
//	@Failure	401	{object}	error
//	@Router		/auth/refresh [post]
func (app *application) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload refreshRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token, err := app.authenticator.ValidateRefreshToken(payload.RefreshToken)
	if err != nil {
		app.unauthorizedErrorResponse(w, r, err)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("invalid token claims"))
		return
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		app.unauthorizedErrorResponse(w, r, fmt.Errorf("missing subject"))
		return
	}

	access, refresh, err := app.authenticator.GenerateTokens(subject, "admin")
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}
