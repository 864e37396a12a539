package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"sermon-search/domain"
	"sermon-search/indexer"
	"sermon-search/port"
)

// ItemUpsertedPayload is the payload of an ItemUpserted event.
type ItemUpsertedPayload struct {
	ItemID int64  `json:"item_id"`
	Title  string `json:"title"`
}

// ItemDeletedPayload is the payload of an ItemDeleted event.
type ItemDeletedPayload struct {
	ItemID int64 `json:"item_id"`
}

// ItemEventHandler keeps single documents in sync when the catalog changes:
// an upsert re-derives and overwrites the item's whole document, a delete
// removes it.
type ItemEventHandler struct {
	indexer *indexer.Indexer
	catalog port.CatalogRepository
	logger  *slog.Logger
}

func NewItemEventHandler(ix *indexer.Indexer, catalog port.CatalogRepository, logger *slog.Logger) *ItemEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemEventHandler{
		indexer: ix,
		catalog: catalog,
		logger:  logger,
	}
}

// HandleEvent processes a single catalog event. Unknown event types are
// skipped and ACKed so they are not redelivered forever.
func (h *ItemEventHandler) HandleEvent(ctx context.Context, event Event) error {
	switch event.EventType {
	case "ItemUpserted":
		return h.handleItemUpserted(ctx, event)
	case "ItemDeleted":
		return h.handleItemDeleted(ctx, event)
	default:
		h.logger.Warn("unknown event type, skipping",
			"event_type", event.EventType,
			"event_id", event.EventID,
		)
		return nil
	}
}

func (h *ItemEventHandler) handleItemUpserted(ctx context.Context, event Event) error {
	var payload ItemUpsertedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		h.logger.Error("failed to unmarshal ItemUpserted payload",
			"event_id", event.EventID,
			"error", err,
		)
		return err
	}

	item, err := h.catalog.GetByID(ctx, payload.ItemID, 0)
	if errors.Is(err, domain.ErrItemNotFound) {
		// Deleted between event publication and consumption; nothing to index.
		h.logger.Warn("upserted item no longer in catalog, skipping",
			"item_id", payload.ItemID,
		)
		return nil
	}
	if err != nil {
		return err
	}

	if !h.indexer.IndexOne(ctx, item) {
		return errors.New("index write failed")
	}

	h.logger.Info("item reindexed from event", "item_id", payload.ItemID)
	return nil
}

func (h *ItemEventHandler) handleItemDeleted(ctx context.Context, event Event) error {
	var payload ItemDeletedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		h.logger.Error("failed to unmarshal ItemDeleted payload",
			"event_id", event.EventID,
			"error", err,
		)
		return err
	}

	if !h.indexer.DeleteOne(ctx, payload.ItemID) {
		return errors.New("index delete failed")
	}

	h.logger.Info("item removed from index", "item_id", payload.ItemID)
	return nil
}
