package handlers

import (
	"AgroTech-Vision/domain"
	"AgroTech-Vision/internal/api/presenters"
	"AgroTech-Vision/pkg/history"
	"bytes"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	HistoryHandler interface {
		GetHistory(c *fiber.Ctx) error
		GetStats(c *fiber.Ctx) error
		ExportHistory(c *fiber.Ctx) error
		MailExport(c *fiber.Ctx) error
		RemoveEntry(c *fiber.Ctx) error
		ClearHistory(c *fiber.Ctx) error
	}

	historyHandler struct {
		historyService history.HistoryService
		validator      *validator.Validate
	}
)

func NewHistoryHandler(historyService history.HistoryService, validator *validator.Validate) HistoryHandler {
	return &historyHandler{
		historyService: historyService,
		validator:      validator,
	}
}

func (h *historyHandler) GetHistory(c *fiber.Ctx) error {
	query := new(domain.HistoryQuery)
	if err := c.QueryParser(query); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(query); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetHistory, err)
	}

	entries := h.historyService.GetEntries(c.Context(), *query)
	return presenters.SuccessResponse(c, entries, fiber.StatusOK, domain.MessageSuccessGetHistory)
}

func (h *historyHandler) GetStats(c *fiber.Ctx) error {
	stats := h.historyService.GetStats(c.Context())
	return presenters.SuccessResponse(c, stats, fiber.StatusOK, domain.MessageSuccessGetStats)
}

func (h *historyHandler) ExportHistory(c *fiber.Ctx) error {
	var buf bytes.Buffer
	fileName, err := h.historyService.ExportHistory(c.Context(), &buf)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedExport, err)
	}

	c.Attachment(fileName)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(buf.Bytes())
}

func (h *historyHandler) MailExport(c *fiber.Ctx) error {
	req := new(domain.MailExportRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedExport, err)
	}

	if err := h.historyService.MailExport(c.Context(), *req); err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedExport, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedExport, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMailExport)
}

func (h *historyHandler) RemoveEntry(c *fiber.Ctx) error {
	if err := h.historyService.RemoveEntry(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedRemoveEntry, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRemoveEntry, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveEntry)
}

func (h *historyHandler) ClearHistory(c *fiber.Ctx) error {
	if err := h.historyService.ClearHistory(c.Context()); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedClearHistory, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessClearHistory)
}
