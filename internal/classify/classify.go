// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns each document to the single taxonomy topic whose
// keywords occur most often in it.
package classify

import (
	"regexp"
	"strings"

	"github.com/HelloWaord1/longivity/internal/evidence"
	"github.com/HelloWaord1/longivity/internal/taxonomy"
	"github.com/HelloWaord1/longivity/pkg/types"
)

// Match is the outcome of classifying one document.
type Match struct {
	TopicID         string
	Score           int
	MatchedKeywords []string
}

type topicMatcher struct {
	id       string
	keywords []string
	patterns []*regexp.Regexp
}

// Classifier scores documents against every topic. It is safe for concurrent use.
type Classifier struct {
	tx     *taxonomy.Taxonomy
	topics []topicMatcher
}

// New compiles keyword patterns for every topic in tx.
func New(tx *taxonomy.Taxonomy) *Classifier {
	c := &Classifier{tx: tx}
	for _, t := range tx.Topics {
		tm := topicMatcher{id: t.ID, keywords: t.Keywords}
		for _, kw := range t.Keywords {
			tm.patterns = append(tm.patterns, tx.Pattern(kw))
		}
		c.topics = append(c.topics, tm)
	}
	return c
}

// Text returns the lower-cased text a document is classified on: title,
// abstract and tags.
func Text(doc types.Document) string {
	parts := append([]string{doc.Title, doc.Abstract}, doc.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Classify scores doc against every topic by summing keyword occurrences.
// The highest score wins; on a tie the topic declared first in the taxonomy
// wins. ok is false when no keyword occurs at all.
func (c *Classifier) Classify(doc types.Document) (m Match, ok bool) {
	for _, s := range c.Scores(doc) {
		// Strict comparison keeps the earlier topic on ties.
		if s.Score > m.Score {
			m = s
		}
	}
	return m, m.Score > 0
}

// Scores returns the per-topic score for doc in taxonomy order. Topics with
// no hits are omitted.
func (c *Classifier) Scores(doc types.Document) []Match {
	text := Text(doc)
	var out []Match
	for _, tm := range c.topics {
		m := Match{TopicID: tm.id}
		for i, re := range tm.patterns {
			if n := len(re.FindAllStringIndex(text, -1)); n > 0 {
				m.Score += n
				m.MatchedKeywords = append(m.MatchedKeywords, tm.keywords[i])
			}
		}
		if m.Score > 0 {
			out = append(out, m)
		}
	}
	return out
}

// Group is the set of documents assigned to one topic.
type Group struct {
	Topic     taxonomy.Topic
	Documents []types.ClassifiedDocument
}

// GroupDocuments classifies and grades docs. Groups are returned in
// taxonomy order with documents in input order; documents matching no
// topic are returned separately.
func (c *Classifier) GroupDocuments(docs []types.Document) (groups []Group, unclassified []types.Document) {
	byTopic := make(map[string][]types.ClassifiedDocument)
	for _, doc := range docs {
		m, ok := c.Classify(doc)
		if !ok {
			unclassified = append(unclassified, doc)
			continue
		}
		byTopic[m.TopicID] = append(byTopic[m.TopicID], types.ClassifiedDocument{
			Document:      doc,
			TopicID:       m.TopicID,
			TopicScore:    m.Score,
			TopicKeywords: m.MatchedKeywords,
			EvidenceLevel: string(evidence.Grade(doc)),
		})
	}
	for _, t := range c.tx.Topics {
		if members := byTopic[t.ID]; len(members) > 0 {
			groups = append(groups, Group{Topic: t, Documents: members})
		}
	}
	return groups, unclassified
}
