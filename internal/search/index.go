// Package search indexes extracted business profiles so past decks can be
// found by company or topic.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"pitchcraft/internal/models"
)

var (
	ErrIndexFailed = errors.New("SEARCH_INDEX_FAILED")
	ErrQueryFailed = errors.New("SEARCH_QUERY_FAILED")
	ErrPruneFailed = errors.New("SEARCH_PRUNE_FAILED")
)

const defaultResultSize = 10

// IndexMapping is the index definition for ProfileDocument.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "deckId":      {"type": "keyword"},
      "companyName": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "personnel":   {"type": "text"},
      "content":     {"type": "text"},
      "metricTypes": {"type": "keyword"},
      "tier":        {"type": "keyword"},
      "createdAt":   {"type": "date"}
    }
  }
}`

// ProfileDocument is the indexed form of a profile.
type ProfileDocument struct {
	DeckID      string    `json:"deckId"`
	CompanyName string    `json:"companyName"`
	Personnel   []string  `json:"personnel"`
	Content     string    `json:"content"`
	MetricTypes []string  `json:"metricTypes"`
	Tier        string    `json:"tier"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Hit struct {
	DeckID      string    `json:"deckId"`
	CompanyName string    `json:"companyName"`
	Tier        string    `json:"tier"`
	Score       float64   `json:"score"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ProfileIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewProfileIndex(client *elasticsearch.Client, index string) *ProfileIndex {
	if index == "" {
		index = "business_profiles"
	}
	return &ProfileIndex{client: client, index: index}
}

// NewDocument flattens a deck's profile for indexing.
func NewDocument(deck *models.Deck) ProfileDocument {
	doc := ProfileDocument{
		DeckID:      deck.ID,
		CompanyName: deck.CompanyName,
		Tier:        string(deck.Tier),
		CreatedAt:   deck.CreatedAt,
	}
	if deck.Profile == nil {
		return doc
	}

	for _, p := range deck.Profile.Personnel {
		doc.Personnel = append(doc.Personnel, p.Name+" "+p.Role)
	}
	var content []string
	for _, key := range models.SectionKeys {
		content = append(content, deck.Profile.Section(key)...)
	}
	doc.Content = strings.Join(content, " ")

	seen := map[models.MetricType]bool{}
	for _, m := range deck.Profile.Metrics {
		if !seen[m.Type] {
			seen[m.Type] = true
			doc.MetricTypes = append(doc.MetricTypes, string(m.Type))
		}
	}
	return doc
}

// IndexDeck stores the deck's profile under the deck id.
func (i *ProfileIndex) IndexDeck(ctx context.Context, deck *models.Deck) error {
	body, err := json.Marshal(NewDocument(deck))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: deck.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrIndexFailed, res.Status())
	}
	return nil
}

func buildSearchQuery(query string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"companyName^3", "personnel^2", "content"},
				"type":   "best_fields",
			},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"createdAt": map[string]string{"order": "desc"}},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64         `json:"_score"`
			Source ProfileDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search returns the best matching decks for query.
func (i *ProfileIndex) Search(ctx context.Context, query string, size int) ([]Hit, error) {
	if size <= 0 {
		size = defaultResultSize
	}

	body, err := json.Marshal(buildSearchQuery(query))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	req := esapi.SearchRequest{
		Index: []string{i.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrQueryFailed, err)
	}

	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, Hit{
			DeckID:      h.Source.DeckID,
			CompanyName: h.Source.CompanyName,
			Tier:        h.Source.Tier,
			Score:       h.Score,
			CreatedAt:   h.Source.CreatedAt,
		})
	}
	return hits, nil
}

func buildExpiryQuery(cutoff time.Time) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"range": map[string]interface{}{
				"createdAt": map[string]string{"lt": cutoff.UTC().Format(time.RFC3339)},
			},
		},
	}
}

// DeleteOlderThan removes profiles of decks created before cutoff and
// reports how many documents were deleted.
func (i *ProfileIndex) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	body, err := json.Marshal(buildExpiryQuery(cutoff))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPruneFailed, err)
	}

	refresh := true
	req := esapi.DeleteByQueryRequest{
		Index:     []string{i.index},
		Body:      bytes.NewReader(body),
		Conflicts: "proceed",
		Refresh:   &refresh,
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPruneFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("%w: %s", ErrPruneFailed, res.Status())
	}

	var parsed struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("%w: decode: %v", ErrPruneFailed, err)
	}
	return parsed.Deleted, nil
}
