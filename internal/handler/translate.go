package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/gamevault/catalog-api/internal/game"
)

// Translate returns the game's overview in the requested language,
// serving from the per-language cache attribute when one exists and
// otherwise calling the translation provider and persisting the result.
//
// The cache is permanent: once overview_<language> is written it is
// returned verbatim on every later request, even if the overview has
// changed since. Concurrent misses for the same (id, language) may each
// call the provider and write; last write wins.
func (h *Handler) Translate(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	rawID := req.PathParameters["gameId"]
	language := req.QueryStringParameters["language"]
	if rawID == "" || language == "" {
		return respond(http.StatusBadRequest, envelope{"message": "Missing required parameters: gameId or language"})
	}

	// Unlike Get, the path carries the bare uuid; the store key prefix
	// is added here.
	itemID := game.ItemType + "#" + rawID

	rec, err := h.store.Get(ctx, game.ItemType, itemID)
	if err != nil {
		return h.failure(ctx, http.StatusInternalServerError, "Error during translation", err)
	}
	if rec == nil {
		return respond(http.StatusNotFound, envelope{"message": "Game not found"})
	}

	cacheAttr := game.TranslationAttr(language)
	if cached, ok := rec.StringAttr(cacheAttr); ok {
		return respond(http.StatusOK, envelope{"translated": cached, "cached": true})
	}

	overview, _ := rec[game.OverviewAttr].(string)
	translated, err := h.translator.Translate(ctx, overview, h.sourceLang, language)
	if err != nil {
		return h.failure(ctx, http.StatusInternalServerError, "Error during translation", err)
	}

	if _, err := h.store.UpdateFields(ctx, game.ItemType, itemID, map[string]any{cacheAttr: translated}); err != nil {
		return h.failure(ctx, http.StatusInternalServerError, "Error during translation", err)
	}
	return respond(http.StatusOK, envelope{"translated": translated, "cached": false})
}
