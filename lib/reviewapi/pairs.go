// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mfmax/QA2/lib/qapair"
)

// PairsQuery narrows the pair listing. Zero values mean no constraint.
type PairsQuery struct {
	Search       string
	Direction    string
	QuestionType string
	Audit        string
	Source       string
	Page         int
	PerPage      int
}

// Pairs fetches a page of pairs from the review service, already
// folded into domain form, plus the total match count.
func (c *Client) Pairs(ctx context.Context, query PairsQuery) ([]qapair.Pair, int, error) {
	values := url.Values{}
	if query.Search != "" {
		values.Set("search", query.Search)
	}
	if query.Direction != "" {
		values.Set("direction", query.Direction)
	}
	if query.QuestionType != "" {
		values.Set("type", query.QuestionType)
	}
	if query.Audit != "" {
		values.Set("audit", query.Audit)
	}
	if query.Source != "" {
		values.Set("source", query.Source)
	}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if query.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(query.PerPage))
	}

	path := "/api/pairs"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("reviewapi: listing pairs: %w", err)
	}

	var response struct {
		Pairs []struct {
			ID           int64    `json:"id"`
			Question     string   `json:"question"`
			Answer       string   `json:"answer"`
			Direction    string   `json:"direction"`
			QuestionType string   `json:"question_type"`
			Keywords     []string `json:"keywords"`
			IsAudited    bool     `json:"is_audited"`
			IsIrrelevant bool     `json:"is_irrelevant"`
			Source       string   `json:"source"`
		} `json:"pairs"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, 0, fmt.Errorf("reviewapi: parsing pairs response: %w", err)
	}

	pairs := make([]qapair.Pair, 0, len(response.Pairs))
	for _, wire := range response.Pairs {
		pairs = append(pairs, qapair.Pair{
			ID:             wire.ID,
			Question:       wire.Question,
			Answer:         wire.Answer,
			Direction:      wire.Direction,
			QuestionType:   wire.QuestionType,
			Keywords:       wire.Keywords,
			Source:         wire.Source,
			Classification: qapair.Classify(wire.IsAudited, wire.IsIrrelevant),
		})
	}
	return pairs, response.Total, nil
}
