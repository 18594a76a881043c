package search

import (
	"log"
	"os"

	"github.com/elastic/go-elasticsearch/v8"
)

// NewClient connects to elasticsearch when ELASTICSEARCH_URL is set. Search
// is an optional surface: without it the indexer and /search route are
// simply not wired, catalog listing is unaffected.
func NewClient() *elasticsearch.Client {
	url := os.Getenv("ELASTICSEARCH_URL")
	if url == "" {
		return nil
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		log.Printf("Failed to create Elasticsearch client: %v", err)
		return nil
	}

	log.Println("Elasticsearch client initialized")
	return es
}
