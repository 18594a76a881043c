package routes

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gofiber/fiber/v2"
)

// RegisterSearchRoutes exposes full-text product search backed by the
// elasticsearch index the catalog consumer maintains.
func RegisterSearchRoutes(app *fiber.App, es *elasticsearch.Client) {
	app.Get("/api/search", func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return c.Status(400).JSON(fiber.Map{"error": "query parameter 'q' is required"})
		}

		body, _ := json.Marshal(map[string]interface{}{
			"query": map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":  query,
					"fields": []string{"name", "description"},
				},
			},
		})

		res, err := es.Search(
			es.Search.WithContext(c.UserContext()),
			es.Search.WithIndex("products"),
			es.Search.WithBody(strings.NewReader(string(body))),
			es.Search.WithTrackTotalHits(true),
		)
		if err != nil {
			log.Printf("❌ Elasticsearch search error: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "search failed"})
		}
		defer res.Body.Close()

		var result map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to parse response"})
		}

		return c.JSON(result)
	})
}
