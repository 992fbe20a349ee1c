// Package handler maps API Gateway requests onto the catalog store.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/gamevault/catalog-api/internal/game"
	"github.com/gamevault/catalog-api/internal/store"
)

// ItemStore is the catalog table access the handlers need.
type ItemStore interface {
	Put(ctx context.Context, g game.Game) error
	Get(ctx context.Context, itemType, itemID string) (game.Record, error)
	UpdateFields(ctx context.Context, itemType, itemID string, fields map[string]any) (game.Record, error)
	DeleteOne(ctx context.Context, itemType, itemID string) error
	ScanByType(ctx context.Context, itemType string, visible *bool) ([]game.Record, error)
	ScanKeysByType(ctx context.Context, itemType string) ([]store.Key, error)
	DeleteBatch(ctx context.Context, keys []store.Key) error
}

// Translator converts text between language codes.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Handler serves the game catalog API.
type Handler struct {
	store      ItemStore
	translator Translator
	sourceLang string
	log        *slog.Logger
}

// New creates a Handler. sourceLang is the language overviews are
// written in, used as the translation source.
func New(st ItemStore, tr Translator, sourceLang string, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: st, translator: tr, sourceLang: sourceLang, log: log}
}

// Route dispatches a request to the matching operation. Unknown
// method/resource pairs get a 404 envelope.
func (h *Handler) Route(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	resp := h.dispatch(ctx, req)
	h.log.InfoContext(ctx, "request handled",
		"method", req.HTTPMethod,
		"resource", req.Resource,
		"status", resp.StatusCode,
	)
	return resp
}

func (h *Handler) dispatch(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	switch req.Resource {
	case "/games":
		switch req.HTTPMethod {
		case http.MethodPost:
			return h.Create(ctx, req)
		case http.MethodGet:
			return h.List(ctx, req)
		case http.MethodDelete:
			return h.DeleteAll(ctx, req)
		}
	case "/games/{gameId}":
		switch req.HTTPMethod {
		case http.MethodGet:
			return h.Get(ctx, req)
		case http.MethodPut:
			return h.Update(ctx, req)
		case http.MethodPatch:
			return h.Patch(ctx, req)
		case http.MethodDelete:
			return h.Delete(ctx, req)
		}
	case "/games/{gameId}/translation":
		if req.HTTPMethod == http.MethodGet {
			return h.Translate(ctx, req)
		}
	}
	return respond(http.StatusNotFound, envelope{"message": "Not found"})
}

// envelope is the JSON response wrapper: a message plus any
// operation-specific payload keys.
type envelope map[string]any

func respond(status int, body any) events.APIGatewayProxyResponse {
	b, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"message":"Internal error"}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}
}

func (h *Handler) failure(ctx context.Context, status int, message string, err error) events.APIGatewayProxyResponse {
	h.log.ErrorContext(ctx, message, "error", err)
	return respond(status, envelope{"message": message, "error": err.Error()})
}
