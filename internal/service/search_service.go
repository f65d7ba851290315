package service

import (
	"html"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"kampusconnect.id/forum/internal/model"
)

const postsIndex = "posts"

// SearchService mirrors posts into Meilisearch. All methods are no-ops when
// the server runs without a Meilisearch instance, so callers never branch on
// its presence.
type SearchService interface {
	IndexPost(post *model.Post) error
	DeletePost(id string) error
	SearchPosts(query string, limit int64) ([]SearchHit, error)
}

type SearchHit struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Topic      string `json:"topic"`
	Type       string `json:"type"`
	AuthorName string `json:"authorName"`
	CreatedAt  int64  `json:"createdAt"`
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	if client != nil {
		s.initIndexes()
	}
	return s
}

func (s *searchService) initIndexes() {
	filterable := []any{"type", "topic"}
	if _, err := s.client.Index(postsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("Failed to update posts filterable attributes: %v", err)
	}

	sortable := []string{"createdAt", "likes", "views"}
	if _, err := s.client.Index(postsIndex).UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("Failed to update posts sortable attributes: %v", err)
	}
}

func (s *searchService) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *searchService) IndexPost(post *model.Post) error {
	if s.client == nil {
		return nil
	}

	doc := SearchHit{
		ID:         post.ID,
		Title:      post.Title,
		Content:    s.cleanContentForIndex(post.Content),
		Topic:      post.Topic,
		Type:       string(post.Type),
		AuthorName: post.AuthorName,
		CreatedAt:  post.CreatedAt.Unix(),
	}

	task, err := s.client.Index(postsIndex).AddDocuments([]SearchHit{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed post %s, task id: %d", post.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeletePost(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(postsIndex).DeleteDocument(id)
	return err
}

func (s *searchService) SearchPosts(query string, limit int64) ([]SearchHit, error) {
	if s.client == nil {
		return []SearchHit{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	resp, err := s.client.Index(postsIndex).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
		Sort:  []string{"createdAt:desc"},
	})
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(resp.Hits))
	for _, raw := range resp.Hits {
		var hit SearchHit
		if err := raw.Decode(&hit); err != nil {
			continue
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func strPtr(s string) *string {
	return &s
}
