package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"

	"github.com/gamevault/catalog-api/internal/game"
)

// Create stores a new game under a server-generated id and returns the
// stored item.
func (h *Handler) Create(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	if req.Body == "" {
		return respond(http.StatusBadRequest, envelope{"message": "Missing request body"})
	}
	in, err := game.ParseInput(req.Body)
	if err != nil {
		return respond(http.StatusBadRequest, envelope{"message": "Invalid JSON in request body"})
	}

	g := in.Materialize(game.NewID())
	if err := h.store.Put(ctx, g); err != nil {
		return h.failure(ctx, http.StatusInternalServerError, "Error adding game", err)
	}
	return respond(http.StatusCreated, envelope{"message": "Game added", "item": g})
}

// Get looks up one game by its id path parameter. The parameter is
// URL-decoded before the lookup so percent-encoded ids resolve.
func (h *Handler) Get(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	id := decodedGameID(req)
	if id == "" {
		return respond(http.StatusBadRequest, envelope{"message": "Missing gameId in path parameters"})
	}

	rec, err := h.store.Get(ctx, game.ItemType, id)
	if err != nil {
		return h.failure(ctx, http.StatusInternalServerError, "Error fetching game", err)
	}
	if rec == nil {
		return respond(http.StatusNotFound, envelope{"message": "Game not found"})
	}
	return respond(http.StatusOK, envelope{"game": rec})
}

// List returns all games, optionally narrowed by the visible query
// parameter: "true" filters to visible games, any other value to hidden
// ones, absent means no filter.
func (h *Handler) List(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var visible *bool
	if raw, ok := req.QueryStringParameters["visible"]; ok {
		v := raw == "true"
		visible = &v
	}

	games, err := h.store.ScanByType(ctx, game.ItemType, visible)
	if err != nil {
		return h.failure(ctx, http.StatusInternalServerError, "Error fetching games", err)
	}
	return respond(http.StatusOK, envelope{"games": games})
}

// Update replaces all four core fields, defaulting any the body omits
// exactly like Create. Omitting a field therefore resets it.
func (h *Handler) Update(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	id := req.PathParameters["gameId"]
	if id == "" {
		return respond(http.StatusBadRequest, envelope{"message": "Missing gameId in path parameters"})
	}
	if req.Body == "" {
		return respond(http.StatusBadRequest, envelope{"message": "Missing request body"})
	}
	in, err := game.ParseInput(req.Body)
	if err != nil {
		return respond(http.StatusBadRequest, envelope{"message": "Invalid JSON in request body"})
	}

	updated, err := h.store.UpdateFields(ctx, game.ItemType, id, in.Materialize(id).Fields())
	if err != nil {
		return h.failure(ctx, http.StatusInternalServerError, "Error updating game", err)
	}
	return respond(http.StatusOK, envelope{"message": "Game updated", "updated": updated})
}

// Patch writes exactly the fields the body names, with no defaulting.
// Arbitrary field names are allowed.
func (h *Handler) Patch(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	id := req.PathParameters["gameId"]
	if id == "" {
		return respond(http.StatusBadRequest, envelope{"message": "Missing gameId in path parameters"})
	}
	if req.Body == "" {
		return respond(http.StatusBadRequest, envelope{"message": "Missing request body"})
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(req.Body), &fields); err != nil {
		return respond(http.StatusBadRequest, envelope{"message": "Invalid JSON in request body"})
	}
	if len(fields) == 0 {
		return respond(http.StatusBadRequest, envelope{"message": "No fields to update"})
	}

	if _, err := h.store.UpdateFields(ctx, game.ItemType, id, fields); err != nil {
		return h.failure(ctx, http.StatusInternalServerError, "Error updating game", err)
	}
	return respond(http.StatusOK, envelope{"message": "Game updated successfully"})
}

// Delete removes one game. Deleting an id that does not exist still
// succeeds.
func (h *Handler) Delete(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	id := req.PathParameters["gameId"]
	if id == "" {
		return respond(http.StatusBadRequest, envelope{"message": "Missing gameId in path parameters"})
	}

	if err := h.store.DeleteOne(ctx, game.ItemType, id); err != nil {
		return h.failure(ctx, http.StatusInternalServerError, "Error deleting game", err)
	}
	return respond(http.StatusOK, envelope{"message": "Game deleted successfully"})
}

// DeleteAll enumerates every game and removes them in one batch. An
// empty table short-circuits without a batch call.
func (h *Handler) DeleteAll(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	keys, err := h.store.ScanKeysByType(ctx, game.ItemType)
	if err != nil {
		return h.failure(ctx, http.StatusInternalServerError, "Error deleting games", err)
	}
	if len(keys) == 0 {
		return respond(http.StatusOK, envelope{"message": "No games found to delete."})
	}

	if err := h.store.DeleteBatch(ctx, keys); err != nil {
		return h.failure(ctx, http.StatusInternalServerError, "Error deleting games", err)
	}
	return respond(http.StatusOK, envelope{"message": "All games deleted successfully."})
}

func decodedGameID(req events.APIGatewayProxyRequest) string {
	raw := req.PathParameters["gameId"]
	id, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return id
}
