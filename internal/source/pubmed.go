// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/HelloWaord1/longivity/internal/httputil"
	"github.com/HelloWaord1/longivity/internal/textutil"
	"github.com/HelloWaord1/longivity/pkg/types"
)

var pubmedBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// PubMed runs an esearch for Term over the last RecentDays days, then
// efetches the matching records.
type PubMed struct {
	Client     *httputil.Client
	Pacer      *Pacer
	Term       string
	MaxResults int
	RecentDays int

	// APIKey is optional; it raises NCBI's rate limit.
	APIKey string
}

func (p *PubMed) Name() string   { return "pubmed:" + p.Term }
func (p *PubMed) Family() string { return "pubmed" }

func (p *PubMed) Fetch(ctx context.Context) ([]types.Document, error) {
	ids, err := p.search(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", strings.Join(ids, ","))
	q.Set("retmode", "xml")
	if p.APIKey != "" {
		q.Set("api_key", p.APIKey)
	}
	if err := p.Pacer.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := p.Client.Get(ctx, pubmedBase+"/efetch.fcgi?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("PubMed efetch: %w", err)
	}
	return parsePubMed(body)
}

func (p *PubMed) search(ctx context.Context) ([]string, error) {
	max := p.MaxResults
	if max <= 0 {
		max = 20
	}
	days := p.RecentDays
	if days <= 0 {
		days = 30
	}

	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("term", p.Term)
	q.Set("retmax", strconv.Itoa(max))
	q.Set("sort", "date")
	q.Set("retmode", "json")
	q.Set("datetype", "edat")
	q.Set("reldate", strconv.Itoa(days))
	if p.APIKey != "" {
		q.Set("api_key", p.APIKey)
	}

	if err := p.Pacer.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := p.Client.Get(ctx, pubmedBase+"/esearch.fcgi?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("PubMed esearch: %w", err)
	}
	var res struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return res.ESearchResult.IDList, nil
}

type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID    string `xml:"MedlineCitation>PMID"`
	Article struct {
		Title    innerText `xml:"ArticleTitle"`
		Abstract []struct {
			Label string `xml:"Label,attr"`
			Text  string `xml:",innerxml"`
		} `xml:"Abstract>AbstractText"`
		Journal struct {
			Title string `xml:"Title"`
			Year  string `xml:"JournalIssue>PubDate>Year"`
		} `xml:"Journal"`
		PublicationTypes []string `xml:"PublicationTypeList>PublicationType"`
	} `xml:"MedlineCitation>Article"`
	Keywords   []string `xml:"MedlineCitation>KeywordList>Keyword"`
	ArticleIDs []struct {
		Type  string `xml:"IdType,attr"`
		Value string `xml:",chardata"`
	} `xml:"PubmedData>ArticleIdList>ArticleId"`
}

// innerText keeps inline markup such as <i> so CleanText can strip it later.
type innerText string

func (t *innerText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var v struct {
		Inner string `xml:",innerxml"`
	}
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*t = innerText(v.Inner)
	return nil
}

// publicationStudyTypes maps PubMed publication types to raw study-type labels.
var publicationStudyTypes = []struct {
	pubType string
	raw     string
}{
	{"Meta-Analysis", "meta-analysis"},
	{"Systematic Review", "meta-analysis"},
	{"Randomized Controlled Trial", "rct"},
	{"Observational Study", "cohort"},
	{"Review", "review"},
	{"Preprint", "preprint"},
}

func parsePubMed(body []byte) ([]types.Document, error) {
	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	docs := make([]types.Document, 0, len(set.Articles))
	for _, a := range set.Articles {
		var abstract []string
		for _, part := range a.Article.Abstract {
			text := strings.TrimSpace(part.Text)
			if part.Label != "" {
				text = part.Label + ": " + text
			}
			abstract = append(abstract, text)
		}

		doc := types.Document{
			ID:       "pubmed-" + a.PMID,
			Kind:     types.KindResearch,
			Title:    textutil.CleanText(string(a.Article.Title)),
			Abstract: textutil.CleanText(strings.Join(abstract, " ")),
			Source:   "pubmed",
			Journal:  strings.TrimSpace(a.Article.Journal.Title),
			URL:      "https://pubmed.ncbi.nlm.nih.gov/" + a.PMID + "/",
			Tags:     append([]string{"pubmed"}, a.Keywords...),
		}
		for _, id := range a.ArticleIDs {
			if id.Type == "doi" {
				doc.DOI = strings.TrimSpace(id.Value)
				doc.URL = "https://doi.org/" + doc.DOI
			}
		}
		if y, err := strconv.Atoi(a.Article.Journal.Year); err == nil {
			doc.Published = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
		doc.StudyType = studyTypeFromPublication(a.Article.PublicationTypes)
		docs = append(docs, doc)
	}
	return docs, nil
}

func studyTypeFromPublication(pubTypes []string) string {
	for _, m := range publicationStudyTypes {
		for _, pt := range pubTypes {
			if strings.EqualFold(strings.TrimSpace(pt), m.pubType) {
				return m.raw
			}
		}
	}
	return ""
}
