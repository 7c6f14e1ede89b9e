package dto

import "github.com/leetboard/leetboard/internal/model"

// ImportProblemRequest is one problem entry in an import document.
type ImportProblemRequest struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
}

// ImportRequest is the roadmap import document: problems grouped by topic.
type ImportRequest map[string][]ImportProblemRequest

// ImportResponse summarizes an import run.
type ImportResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ProblemListResponse wraps the problem catalog.
type ProblemListResponse struct {
	Problems []*model.Problem `json:"problems"`
	Count    int              `json:"count"`
}
