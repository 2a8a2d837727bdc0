package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortly/internal/codegen"
	"github.com/vadimbarashkov/shortly/internal/entity"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type urlUseCase interface {
	ShortenURL(ctx context.Context, originalURL string) (*entity.URL, error)
	ResolveShortCode(ctx context.Context, shortCode string) (string, bool, error)
	RecordUsed(ctx context.Context, shortCode string) error
	GetURLStats(ctx context.Context, shortCode string) (*entity.URL, bool, error)
}

type urlHandler struct {
	useCase  urlUseCase
	validate *validator.Validate
	prefix   string
}

func newURLHandler(useCase urlUseCase, validate *validator.Validate, prefix string) *urlHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &urlHandler{
		useCase:  useCase,
		validate: validate,
		prefix:   prefix,
	}
}

// shortCode builds the full short code from the path segment. It reports false
// when the segment cannot be a generated code body.
func (h *urlHandler) shortCode(r *http.Request) (string, bool) {
	body := chi.URLParam(r, "shortCode")
	if len(body) != codegen.BodyLength {
		return "", false
	}

	return h.prefix + body, true
}

func (h *urlHandler) shortenURL(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	url, err := h.useCase.ShortenURL(r.Context(), req.URL)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	if url.RequestCount == 1 {
		render.Status(r, http.StatusCreated)
	} else {
		render.Status(r, http.StatusOK)
	}
	render.JSON(w, r, toURLResponse(url))
}

// resolve returns the original URL behind the requested short code and counts the use.
// It writes the error response itself and reports false when the request is done.
func (h *urlHandler) resolve(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	shortCode, ok := h.shortCode(r)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
		return "", "", false
	}

	originalURL, ok, err := h.useCase.ResolveShortCode(r.Context(), shortCode)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return "", "", false
	}
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
		return "", "", false
	}

	// A failed counter update does not fail the resolution.
	if err := h.useCase.RecordUsed(r.Context(), shortCode); err != nil {
		httplog.LogEntrySetField(r.Context(), "record_used_err", slog.AnyValue(err))
	}

	return shortCode, originalURL, true
}

func (h *urlHandler) resolveShortCode(w http.ResponseWriter, r *http.Request) {
	shortCode, originalURL, ok := h.resolve(w, r)
	if !ok {
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resolveResponse{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
	})
}

func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	_, originalURL, ok := h.resolve(w, r)
	if !ok {
		return
	}

	http.Redirect(w, r, originalURL, http.StatusFound)
}

func (h *urlHandler) getURLStats(w http.ResponseWriter, r *http.Request) {
	shortCode, ok := h.shortCode(r)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
		return
	}

	url, ok, err := h.useCase.GetURLStats(r.Context(), shortCode)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toURLStatsResponse(url))
}
