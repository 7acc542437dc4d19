package inspire

import (
	"regexp"
	"strings"
)

// Identifier kinds recognised by DetectIdentifier.
const (
	IDKindInspire = "inspire"
	IDKindArxiv   = "arxiv"
	IDKindDOI     = "doi"
)

var (
	// New style: YYMM.NNNNN with optional vN suffix.
	arxivNewRe = regexp.MustCompile(`^(\d{4}\.\d{4,5})(v\d+)?$`)
	// Old style: archive/YYMMNNN with optional vN suffix.
	arxivOldRe = regexp.MustCompile(`^([a-z-]+/\d{7})(v\d+)?$`)
	arxivURLRe = regexp.MustCompile(`arxiv\.org/abs/(.+?)(?:v\d+)?$`)

	doiRe    = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
	doiURLRe = regexp.MustCompile(`doi\.org/(10\.\d{4,9}/\S+)$`)

	inspireIDRe = regexp.MustCompile(`^\d+$`)
)

// NormalizeArxivID returns the canonical bare arXiv ID without version
// suffix, e.g. "2301.12345" or "hep-ph/0123456".
func NormalizeArxivID(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	if m := arxivURLRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	if m := arxivNewRe.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if m := arxivOldRe.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	return "", &InvalidIdentifierError{Kind: "arXiv", Value: raw}
}

// NormalizeDOI returns the bare DOI without any URL prefix.
func NormalizeDOI(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	if m := doiURLRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	if doiRe.MatchString(s) {
		return s, nil
	}
	return "", &InvalidIdentifierError{Kind: "DOI", Value: raw}
}

// NormalizeInspireID validates a purely numeric InspireHEP record ID.
func NormalizeInspireID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if inspireIDRe.MatchString(s) {
		return s, nil
	}
	return "", &InvalidIdentifierError{Kind: "Inspire", Value: raw}
}

// DetectIdentifier classifies a literature identifier and returns its kind
// and normalized value.
func DetectIdentifier(raw string) (kind, id string, err error) {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "10.") || strings.Contains(s, "doi.org/") {
		id, err = NormalizeDOI(s)
		return IDKindDOI, id, err
	}

	if strings.Contains(s, "arxiv.org") {
		id, err = NormalizeArxivID(s)
		return IDKindArxiv, id, err
	}

	bare := s
	if i := strings.IndexByte(bare, 'v'); i > 0 {
		bare = bare[:i]
	}
	if strings.Contains(s, "/") && arxivOldRe.MatchString(bare) {
		id, err = NormalizeArxivID(s)
		return IDKindArxiv, id, err
	}
	if strings.Contains(s, ".") && arxivNewRe.MatchString(bare) {
		id, err = NormalizeArxivID(s)
		return IDKindArxiv, id, err
	}

	if inspireIDRe.MatchString(s) {
		return IDKindInspire, s, nil
	}

	return "", "", &InvalidIdentifierError{Kind: "unknown", Value: raw}
}
