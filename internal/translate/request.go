package translate

import (
	"encoding/json"

	"github.com/nlstn/go-esquery/internal/criteria"
	"github.com/nlstn/go-esquery/internal/mapping"
)

// SearchRequest is the assembled search request. Filter holds the translated
// predicate; Query stays nil for pure filter translation. Size and From are
// pagination slots populated by callers.
type SearchRequest struct {
	DocumentType string
	Filter       criteria.Criteria
	Query        criteria.Criteria
	Size         int64
	From         int64
}

// requestBody is the serialized shape of a search request.
type requestBody struct {
	Query  criteria.Criteria `json:"query,omitempty"`
	Filter criteria.Criteria `json:"filter,omitempty"`
	Size   int64             `json:"size,omitempty"`
	From   int64             `json:"from,omitempty"`
}

// Body serializes the request to its JSON document.
func (r *SearchRequest) Body() ([]byte, error) {
	return json.Marshal(requestBody{
		Query:  r.Query,
		Filter: r.Filter,
		Size:   r.Size,
		From:   r.From,
	})
}

// assemble wraps a translated criteria into the request shell, AND-ing in
// the mapping's type-selection criteria. A predicate that folded to true
// leaves only the type selection; one that folded to false stays as the
// never-matching constant.
func assemble(m mapping.Mapping, docType string, c criteria.Criteria) *SearchRequest {
	selection := m.TypeSelection(docType)

	var filter criteria.Criteria
	switch {
	case c == nil || c == criteria.True:
		filter = selection
	case selection != nil:
		filter = criteria.And(c, selection)
	default:
		filter = c
	}

	return &SearchRequest{DocumentType: docType, Filter: filter}
}
