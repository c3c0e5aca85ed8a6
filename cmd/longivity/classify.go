// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HelloWaord1/longivity/internal/classify"
	"github.com/HelloWaord1/longivity/internal/evidence"
	"github.com/HelloWaord1/longivity/internal/relevance"
	"github.com/HelloWaord1/longivity/internal/source"
	"github.com/HelloWaord1/longivity/pkg/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [title]",
	Short: "Score, classify and grade documents without storing anything",
	Long: `Classify shows how the pipeline would treat documents: relevance score,
matched keywords, assigned topic and evidence level. Pass a title (with
--abstract) or a JSON file of documents with --file.`,
	RunE: runClassify,
}

// classification is one row of classify output.
type classification struct {
	Title           string   `json:"title"`
	Relevance       float64  `json:"relevance"`
	MatchedKeywords []string `json:"matchedKeywords,omitempty"`
	Topic           string   `json:"topic,omitempty"`
	TopicScore      int      `json:"topicScore,omitempty"`
	EvidenceLevel   string   `json:"evidenceLevel"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	docs, err := classifyInput(cmd, args)
	if err != nil {
		return err
	}
	tx, err := loadTaxonomy()
	if err != nil {
		return err
	}
	scorer := relevance.NewScorer(tx)
	classifier := classify.New(tx)

	rows := make([]classification, 0, len(docs))
	for _, doc := range docs {
		res := scorer.Score(doc.Title, doc.Abstract+" "+strings.Join(doc.Tags, " "))
		row := classification{
			Title:           doc.Title,
			Relevance:       res.Score,
			MatchedKeywords: res.MatchedKeywords,
			EvidenceLevel:   string(evidence.Grade(doc)),
		}
		if m, ok := classifier.Classify(doc); ok {
			row.Topic = m.TopicID
			row.TopicScore = m.Score
		}
		rows = append(rows, row)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	for _, r := range rows {
		topic := r.Topic
		if topic == "" {
			topic = "(unclassified)"
		}
		fmt.Fprintf(os.Stdout, "%s\n  relevance %.2f  topic %s (%d)  evidence %s\n",
			r.Title, r.Relevance, topic, r.TopicScore, r.EvidenceLevel)
		if len(r.MatchedKeywords) > 0 {
			fmt.Fprintf(os.Stdout, "  keywords: %s\n", strings.Join(r.MatchedKeywords, ", "))
		}
	}
	return nil
}

func classifyInput(cmd *cobra.Command, args []string) ([]types.Document, error) {
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		return source.ReadDocuments(file)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("a title or --file is required")
	}
	abstract, _ := cmd.Flags().GetString("abstract")
	studyType, _ := cmd.Flags().GetString("study-type")
	return []types.Document{{
		Title:     strings.Join(args, " "),
		Abstract:  abstract,
		StudyType: studyType,
	}}, nil
}

func init() {
	classifyCmd.Flags().String("abstract", "", "abstract text for a single document")
	classifyCmd.Flags().String("study-type", "", "study type reported by the source (e.g. rct)")
	classifyCmd.Flags().String("file", "", "JSON file with one document or an array")
	classifyCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(classifyCmd)
}
