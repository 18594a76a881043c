package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/elastic/go-elasticsearch/v8"
)

const productIndex = "products"

// FamilyDoc is the search projection of a product family.
type FamilyDoc struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ProductType string `json:"product_type"`
	Brand       string `json:"brand"`
}

// CatalogUpdatedEvent mirrors the envelope published on catalog writes.
type CatalogUpdatedEvent struct {
	EventType string `json:"event_type"`
	Data      struct {
		Action string    `json:"action"` // upsert | delete
		Family FamilyDoc `json:"family"`
	} `json:"data"`
}

func IndexFamily(ctx context.Context, es *elasticsearch.Client, doc FamilyDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := es.Index(
		productIndex,
		bytes.NewReader(body),
		es.Index.WithDocumentID(fmt.Sprintf("%d", doc.ID)),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index family %d: %s", doc.ID, res.Status())
	}
	return nil
}

func DeleteFamily(ctx context.Context, es *elasticsearch.Client, id uint) error {
	res, err := es.Delete(
		productIndex,
		fmt.Sprintf("%d", id),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// 404 just means the document was never indexed
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("failed to delete family %d: %s", id, res.Status())
	}
	return nil
}

// CatalogUpdatedHandler keeps the search index in step with catalog writes.
// Indexing failures are logged only; the store stays authoritative.
func CatalogUpdatedHandler(es *elasticsearch.Client) func([]byte) {
	return func(msg []byte) {
		var event CatalogUpdatedEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			log.Printf("invalid catalog.updated payload: %v", err)
			return
		}

		ctx := context.Background()
		switch event.Data.Action {
		case "delete":
			if err := DeleteFamily(ctx, es, event.Data.Family.ID); err != nil {
				log.Printf("❌ %v", err)
			}
		default:
			if err := IndexFamily(ctx, es, event.Data.Family); err != nil {
				log.Printf("❌ %v", err)
			}
		}
	}
}
