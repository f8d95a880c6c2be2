package linkgraph

// StatusCategory buckets a page's HTTP status into the coarse classes the
// reporting layer cares about. The ingestion layer supplies raw codes;
// CategorizeStatus maps them here.
type StatusCategory int

const (
	StatusSuccess StatusCategory = iota
	StatusRedirect
	StatusClientError
	StatusServerError
	StatusOther
)

var statusNames = map[StatusCategory]string{
	StatusSuccess:     "success",
	StatusRedirect:    "redirect",
	StatusClientError: "client_error",
	StatusServerError: "server_error",
	StatusOther:       "other",
}

func (s StatusCategory) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "other"
}

// IsError reports whether the category represents a broken destination
// (4xx or 5xx). Redirects still pass equity and are not errors here.
func (s StatusCategory) IsError() bool {
	return s == StatusClientError || s == StatusServerError
}

// CategorizeStatus maps a raw HTTP status code to its category.
// Codes outside 2xx-5xx land in StatusOther.
func CategorizeStatus(code int) StatusCategory {
	switch {
	case code >= 200 && code < 300:
		return StatusSuccess
	case code >= 300 && code < 400:
		return StatusRedirect
	case code >= 400 && code < 500:
		return StatusClientError
	case code >= 500 && code < 600:
		return StatusServerError
	default:
		return StatusOther
	}
}

// Page is a node in the link graph. The URL is an opaque unique key,
// already case- and trailing-slash-normalized by the ingestion layer.
type Page struct {
	URL       string
	Backlinks int
	Status    StatusCategory
	Category  string

	// inbound and outbound hold the deduplicated edges touching this page.
	// They are populated by Build and never mutated afterwards.
	inbound  []*Edge
	outbound []*Edge
}

// Inbound returns the page's deduplicated inbound edges.
func (p *Page) Inbound() []*Edge { return p.inbound }

// Outbound returns the page's deduplicated outbound edges.
func (p *Page) Outbound() []*Edge { return p.outbound }

// IsDangling reports whether the page has no outbound edges. Dangling pages
// must not absorb equity; the propagation engine redistributes their mass.
func (p *Page) IsDangling() bool { return len(p.outbound) == 0 }

// OutboundByClass partitions the outbound edges into content and
// navigation sets.
func (p *Page) OutboundByClass() (content, navigation []*Edge) {
	for _, e := range p.outbound {
		if e.Class == ClassContent {
			content = append(content, e)
		} else {
			navigation = append(navigation, e)
		}
	}
	return content, navigation
}
