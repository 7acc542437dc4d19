package inspire

import (
	"fmt"

	"github.com/hep-mcp/inspire-mcp/pkg/models"
)

// Wire shapes for InspireHEP literature records. Only the fields the tools
// consume are declared.

type searchResponse struct {
	Hits struct {
		Total int      `json:"total"`
		Hits  []Record `json:"hits"`
	} `json:"hits"`
}

// Record is a single element of the API's hits.hits array, or a record
// fetched by identifier.
type Record struct {
	ID       any            `json:"id"`
	Metadata recordMetadata `json:"metadata"`
	Links    map[string]string `json:"links"`
}

type recordMetadata struct {
	Titles []struct {
		Title string `json:"title"`
	} `json:"titles"`
	Authors []struct {
		FullName     string `json:"full_name"`
		Affiliations []struct {
			Value string `json:"value"`
		} `json:"affiliations"`
		IDs []struct {
			Schema string `json:"schema"`
			Value  string `json:"value"`
		} `json:"ids"`
	} `json:"authors"`
	Abstracts []struct {
		Value string `json:"value"`
	} `json:"abstracts"`
	ArxivEprints []struct {
		Value      string   `json:"value"`
		Categories []string `json:"categories"`
	} `json:"arxiv_eprints"`
	DOIs []struct {
		Value string `json:"value"`
	} `json:"dois"`
	PublicationInfo []struct {
		JournalTitle  string `json:"journal_title"`
		JournalVolume string `json:"journal_volume"`
		PageStart     string `json:"page_start"`
		Year          int    `json:"year"`
	} `json:"publication_info"`
	Collaborations []struct {
		Value string `json:"value"`
	} `json:"collaborations"`
	CitationCount            int    `json:"citation_count"`
	CitationCountWithoutSelf int    `json:"citation_count_without_self_citations"`
	EarliestDate             string `json:"earliest_date"`
	LegacyCreationDate       string `json:"legacy_creation_date"`
	References               []struct {
		Reference struct {
			Label string `json:"label"`
			Title struct {
				Title string `json:"title"`
			} `json:"title"`
			Authors []struct {
				FullName string `json:"full_name"`
			} `json:"authors"`
			ArxivEprint string `json:"arxiv_eprint"`
			DOI         string `json:"doi"`
		} `json:"reference"`
		Record struct {
			Ref string `json:"$ref"`
		} `json:"record"`
	} `json:"references"`
	Documents []struct {
		URL string `json:"url"`
	} `json:"documents"`
	Keywords []struct {
		Value string `json:"value"`
	} `json:"keywords"`
	InspireCategories []struct {
		Term string `json:"term"`
	} `json:"inspire_categories"`
	TexKeys       []string `json:"texkeys"`
	ReportNumbers []struct {
		Value string `json:"value"`
	} `json:"report_numbers"`
	DocumentType  []string `json:"document_type"`
	NumberOfPages int      `json:"number_of_pages"`
}

// recordID renders the record's id, which the API returns as either a JSON
// string or a number.
func (r *Record) recordID() string {
	switch v := r.ID.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

// maxSummaryAuthors bounds the author list on search summaries; the full
// list length is still reported via TotalAuthors.
const maxSummaryAuthors = 10

// maxDetailAuthors bounds the expanded author list on the detail view.
const maxDetailAuthors = 50

// ParsePaper extracts the standardised summary from a record.
func ParsePaper(r *Record) models.Paper {
	meta := &r.Metadata
	id := r.recordID()

	p := models.Paper{
		InspireID:     id,
		TotalAuthors:  len(meta.Authors),
		CitationCount: meta.CitationCount,
		InspireURL:    "https://inspirehep.net/literature/" + id,
	}

	if len(meta.Titles) > 0 {
		p.Title = meta.Titles[0].Title
	}

	for i, a := range meta.Authors {
		if i >= maxSummaryAuthors {
			break
		}
		author := models.Author{FullName: a.FullName}
		for _, aff := range a.Affiliations {
			author.Affiliations = append(author.Affiliations, aff.Value)
		}
		p.Authors = append(p.Authors, author)
	}

	if len(meta.Abstracts) > 0 {
		p.Abstract = meta.Abstracts[0].Value
	}
	if len(meta.ArxivEprints) > 0 {
		p.ArxivID = meta.ArxivEprints[0].Value
		p.ArxivCategories = meta.ArxivEprints[0].Categories
	}
	if len(meta.DOIs) > 0 {
		p.DOI = meta.DOIs[0].Value
	}
	if len(meta.PublicationInfo) > 0 {
		pi := meta.PublicationInfo[0]
		p.Publication = &models.Publication{
			JournalTitle:  pi.JournalTitle,
			JournalVolume: pi.JournalVolume,
			PageStart:     pi.PageStart,
			Year:          pi.Year,
		}
	}
	for _, c := range meta.Collaborations {
		p.Collaborations = append(p.Collaborations, c.Value)
	}

	p.Date = meta.EarliestDate
	if p.Date == "" {
		p.Date = meta.LegacyCreationDate
	}
	return p
}

// ParseDetail builds the rich detail view from a full record.
func ParseDetail(r *Record) models.PaperDetail {
	meta := &r.Metadata
	d := models.PaperDetail{Paper: ParsePaper(r)}

	// Expanded author list for the detail view.
	d.Authors = nil
	for i, a := range meta.Authors {
		if i >= maxDetailAuthors {
			break
		}
		author := models.Author{FullName: a.FullName}
		for _, aff := range a.Affiliations {
			author.Affiliations = append(author.Affiliations, aff.Value)
		}
		for _, id := range a.IDs {
			if id.Schema == "INSPIRE BAI" {
				author.BAI = id.Value
			}
		}
		d.Authors = append(d.Authors, author)
	}

	d.CitationCountWithoutSelf = meta.CitationCountWithoutSelf
	d.ReferencesCount = len(meta.References)
	d.DocumentType = meta.DocumentType
	d.NumberOfPages = meta.NumberOfPages

	for _, k := range meta.Keywords {
		if k.Value != "" {
			d.Keywords = append(d.Keywords, k.Value)
		}
	}
	for _, c := range meta.InspireCategories {
		d.InspireCategories = append(d.InspireCategories, c.Term)
	}
	if len(meta.TexKeys) > 0 {
		d.TexKey = meta.TexKeys[0]
	}
	for _, rn := range meta.ReportNumbers {
		d.ReportNumbers = append(d.ReportNumbers, rn.Value)
	}

	urls := map[string]string{"inspire": d.InspireURL}
	if d.ArxivID != "" {
		urls["arxiv_abs"] = "https://arxiv.org/abs/" + d.ArxivID
		urls["arxiv_pdf"] = "https://arxiv.org/pdf/" + d.ArxivID
	}
	if d.DOI != "" {
		urls["doi"] = "https://doi.org/" + d.DOI
	}
	if len(meta.Documents) > 0 && meta.Documents[0].URL != "" {
		urls["fulltext"] = meta.Documents[0].URL
	}
	if bib := r.Links["bibtex"]; bib != "" {
		urls["bibtex"] = bib
	}
	d.URLs = urls

	return d
}

// ParseReferences extracts the stored reference list of a record.
func ParseReferences(r *Record) []models.Reference {
	refs := make([]models.Reference, 0, len(r.Metadata.References))
	for _, raw := range r.Metadata.References {
		ref := models.Reference{
			Label:   raw.Reference.Label,
			Title:   raw.Reference.Title.Title,
			ArxivID: raw.Reference.ArxivEprint,
			DOI:     raw.Reference.DOI,
		}
		for _, a := range raw.Reference.Authors {
			ref.Authors = append(ref.Authors, a.FullName)
		}
		if raw.Record.Ref != "" {
			ref.InspireID = recidFromRef(raw.Record.Ref)
		}
		refs = append(refs, ref)
	}
	return refs
}

// recidFromRef pulls the numeric recid out of a $ref URL like
// "https://inspirehep.net/api/literature/451647".
func recidFromRef(ref string) string {
	for i := len(ref) - 1; i >= 0; i-- {
		if ref[i] == '/' {
			return ref[i+1:]
		}
	}
	return ref
}

// ParsePapers maps a page of records to paper summaries.
func ParsePapers(records []Record) []models.Paper {
	papers := make([]models.Paper, 0, len(records))
	for i := range records {
		papers = append(papers, ParsePaper(&records[i]))
	}
	return papers
}
