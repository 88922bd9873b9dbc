package handlers

import (
	"AgroTech-Vision/domain"
	"AgroTech-Vision/internal/api/presenters"
	"AgroTech-Vision/pkg/analysis"
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AnalysisHandler interface {
		SelectFile(c *fiber.Ctx) error
		Submit(c *fiber.Ctx) error
		GetAnalysis(c *fiber.Ctx) error
		ClearAnalysis(c *fiber.Ctx) error
		GetPreview(c *fiber.Ctx) error
		KeepResult(c *fiber.Ctx) error
	}

	analysisHandler struct {
		controller analysis.UploadController
		validator  *validator.Validate
	}
)

func NewAnalysisHandler(controller analysis.UploadController, validator *validator.Validate) AnalysisHandler {
	return &analysisHandler{
		controller: controller,
		validator:  validator,
	}
}

func (h *analysisHandler) SelectFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile(domain.PredictFileField)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, domain.ErrParseForm)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSelectFile, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSelectFile, err)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = analysis.DetectMimeType(data)
	}

	state, err := h.controller.Select(analysis.SelectedFile{
		Name:     fileHeader.Filename,
		MimeType: mimeType,
		Size:     fileHeader.Size,
		Data:     data,
	})
	if err != nil {
		message := domain.MessageFailedSelectFile
		if state.Upload.Error != nil {
			message = state.Upload.Error.Message
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	}

	return presenters.SuccessResponse(c, h.controller.Response(state), fiber.StatusOK, domain.MessageSuccessSelectFile)
}

func (h *analysisHandler) Submit(c *fiber.Ctx) error {
	state, err := h.controller.Submit(c.Context())
	if err != nil {
		var apiErr *domain.ApiError
		switch {
		case errors.Is(err, domain.ErrNoFileSelected):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnalyze, err)
		case errors.Is(err, domain.ErrUploadInProgress), errors.Is(err, domain.ErrStaleResponse):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedAnalyze, err)
		case errors.As(err, &apiErr):
			return c.Status(fiber.StatusBadGateway).JSON(presenters.Response{
				Status:  false,
				Message: domain.MessageFailedAnalyze,
				Data:    h.controller.Response(state),
				Error:   apiErr,
			})
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedAnalyze, err)
		}
	}

	return presenters.SuccessResponse(c, h.controller.Response(state), fiber.StatusOK, domain.MessageSuccessAnalyze)
}

func (h *analysisHandler) GetAnalysis(c *fiber.Ctx) error {
	state := h.controller.Snapshot()
	return presenters.SuccessResponse(c, h.controller.Response(state), fiber.StatusOK, domain.MessageSuccessGetAnalysis)
}

func (h *analysisHandler) ClearAnalysis(c *fiber.Ctx) error {
	state := h.controller.Clear()
	return presenters.SuccessResponse(c, h.controller.Response(state), fiber.StatusOK, domain.MessageSuccessClear)
}

func (h *analysisHandler) GetPreview(c *fiber.Ctx) error {
	preview, err := h.controller.Preview(c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetPreview, err)
	}

	c.Set(fiber.HeaderContentType, preview.MimeType)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(preview.Data)
}

func (h *analysisHandler) KeepResult(c *fiber.Ctx) error {
	req := new(domain.KeepResultRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedKeepResult, err)
	}

	entry, err := h.controller.Keep(c.Context(), *req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoResult):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageResultNotAnalyzed, err)
		case errors.Is(err, domain.ErrNotConfigured):
			return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedKeepResult, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedKeepResult, err)
		}
	}

	return presenters.SuccessResponse(c, entry, fiber.StatusCreated, domain.MessageSuccessKeepResult)
}
