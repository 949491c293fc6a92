package services

import (
	"context"
	"strings"

	"claims_backoffice/models"

	"gorm.io/gorm"
)

// Search result types
const (
	SearchTypeClaim    = "claim"
	SearchTypePolicy   = "policy"
	SearchTypeActivity = "activity"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	minSearchLength    = 2
)

// SearchResult is one hit of the global search
type SearchResult struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Status   string `json:"status,omitempty"`
	URL      string `json:"url"`
}

// likePattern lowercases s and escapes LIKE wildcards for a contains match
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// Search looks for the keyword in claims, policies and activities. Each type
// contributes at most limit hits.
func Search(ctx context.Context, db *gorm.DB, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSearchLength {
		return []SearchResult{}, nil
	}
	pattern := likePattern(query)
	results := []SearchResult{}

	var claims []models.Claim
	err := db.WithContext(ctx).
		Where("LOWER(claim_number) LIKE ? ESCAPE '\\' OR LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(insured_name) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern).
		Order("created_date DESC").
		Limit(limit).
		Find(&claims).Error
	if err != nil {
		return nil, storeError("list", "claim", err, nil)
	}
	for _, c := range claims {
		results = append(results, SearchResult{
			Type:     SearchTypeClaim,
			ID:       c.ID,
			Title:    c.ClaimNumber + " " + c.Title,
			Subtitle: c.InsuredName,
			Status:   c.Status,
			URL:      "/claims/" + c.ID,
		})
	}

	var policies []models.Policy
	err = db.WithContext(ctx).
		Where("LOWER(policy_number) LIKE ? ESCAPE '\\' OR LOWER(named_insured) LIKE ? ESCAPE '\\'", pattern, pattern).
		Order("created_date DESC").
		Limit(limit).
		Find(&policies).Error
	if err != nil {
		return nil, storeError("list", "policy", err, nil)
	}
	for _, p := range policies {
		results = append(results, SearchResult{
			Type:     SearchTypePolicy,
			ID:       p.ID,
			Title:    p.PolicyNumber,
			Subtitle: p.NamedInsured,
			URL:      "/policies/" + p.ID,
		})
	}

	var activities []models.Activity
	err = db.WithContext(ctx).
		Where("LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(assignee) LIKE ? ESCAPE '\\'", pattern, pattern).
		Order("created_date DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, storeError("list", "activity", err, nil)
	}
	for _, a := range activities {
		results = append(results, SearchResult{
			Type:     SearchTypeActivity,
			ID:       a.ID,
			Title:    a.Title,
			Subtitle: a.Assignee,
			Status:   a.Status,
			URL:      "/activities/" + a.ID,
		})
	}

	return results, nil
}
