// internal/service/material_resolver.go
package service

import (
	"alcyxob/studyplan-app/internal/domain"
	"alcyxob/studyplan-app/internal/logger"
	"alcyxob/studyplan-app/internal/search"
	"context"
	"net/url"
	"strings"
)

// MaterialResolver attaches learning-material references to a topic. It
// tries the live search collaborator once and absorbs every failure into a
// synthesized search-link fallback, so Resolve never fails.
type MaterialResolver struct {
	searcher search.Client
	log      *logger.Logger
}

// NewMaterialResolver creates a MaterialResolver.
func NewMaterialResolver(searcher search.Client, log *logger.Logger) *MaterialResolver {
	return &MaterialResolver{
		searcher: searcher,
		log:      log.With("service", "MaterialResolver"),
	}
}

// Resolve returns related and review materials for a topic. A single search
// attempt is made; any failure, including results emptied by the URL
// integrity filter, yields two synthesized search links used for both lists.
func (r *MaterialResolver) Resolve(ctx context.Context, topic string) (related, review []domain.MaterialRef) {
	found, err := r.searcher.Find(ctx, topic)
	if err == nil {
		related = DropExampleURLs(found.Related)
		review = DropExampleURLs(found.Review)
		if len(related) > 0 {
			return related, review
		}
	} else {
		r.log.Info("material search failed, synthesizing search links", "topic", topic, "error", err)
	}

	synthesized := SynthesizeSearchMaterials(topic)
	return synthesized, synthesized
}

// SynthesizeSearchMaterials builds the two-entry fallback: one video search
// and one blog search, the topic percent-encoded into fixed query templates.
func SynthesizeSearchMaterials(topic string) []domain.MaterialRef {
	query := url.QueryEscape(topic)
	return []domain.MaterialRef{
		{
			Title:       topic + " lecture videos",
			Type:        domain.MaterialVideo,
			URL:         "https://www.youtube.com/results?search_query=" + query + "+lecture",
			Description: "Search YouTube for lectures on this topic.",
		},
		{
			Title:       topic + " blog posts",
			Type:        domain.MaterialBlog,
			URL:         "https://www.google.com/search?q=" + query + "+blog",
			Description: "Search Google for articles on this topic.",
		},
	}
}

// DropExampleURLs removes materials whose URL contains "example"
// (case-insensitive). Violating entries are dropped, never repaired.
func DropExampleURLs(materials []domain.MaterialRef) []domain.MaterialRef {
	if len(materials) == 0 {
		return materials
	}
	kept := make([]domain.MaterialRef, 0, len(materials))
	for _, m := range materials {
		if strings.Contains(strings.ToLower(m.URL), "example") {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}
