// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"strconv"

	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/delivery/http/response"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// GenerateDownloadInput is the optional request body for download issuance.
type GenerateDownloadInput struct {
	ExpirationSeconds *int `json:"expirationSeconds"`
}

// DownloadHandler holds dependencies for download-related handlers.
type DownloadHandler struct {
	uc usecase.DownloadUsecase
}

// NewDownloadHandler is the constructor for DownloadHandler, injected by Fx.
func NewDownloadHandler(uc usecase.DownloadUsecase) *DownloadHandler {
	return &DownloadHandler{uc: uc}
}

// Generate handles the download-link issuance request.
func (h *DownloadHandler) Generate(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("assetId must be a valid UUID")
	}

	// The body is optional; an empty body selects the default expiry.
	input := new(GenerateDownloadInput)
	if c.Request().ContentLength != 0 {
		if err := c.Bind(input); err != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid download request body")
		}
	}

	grant, err := h.uc.IssueDownloadURL(c.Request().Context(), userID, assetID, input.ExpirationSeconds)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, grant, "Download link issued")
}

// CanDownload reports whether the caller may download the asset, without
// consuming rate-limit budget.
func (h *DownloadHandler) CanDownload(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("assetId must be a valid UUID")
	}

	canDownload, err := h.uc.CanDownload(c.Request().Context(), userID, assetID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"canDownload": canDownload,
		"assetId":     assetID,
	}, "")
}

// History returns a page of the caller's download log.
func (h *DownloadHandler) History(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	history, err := h.uc.History(c.Request().Context(), userID, page, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, history, "")
}
