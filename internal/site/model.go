// Package site assembles the public pages: home and about us.
package site

import (
	"github.com/karan123216/Restaurant-Management-System/internal/catalog"
	"github.com/karan123216/Restaurant-Management-System/internal/feedback"
)

type About struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

type Home struct {
	Items      []catalog.Item      `json:"items"`
	Categories []catalog.Category  `json:"categories"`
	Reviews    []feedback.Feedback `json:"reviews"`
}
