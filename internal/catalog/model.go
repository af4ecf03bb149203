// Package catalog holds the per-business FAQ and product tables the bot
// injects into the automation webhook payload.
package catalog

import (
	"fmt"
	"strings"
)

// FAQ is one question/answer pair shown to the automation service.
type FAQ struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"business_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// Product is a sellable item with an optional description.
type Product struct {
	ID          int64   `json:"id"`
	BusinessID  int64   `json:"business_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// RenderFAQs flattens FAQs into the prompt text form the automation webhook
// expects.
func RenderFAQs(faqs []FAQ) string {
	if len(faqs) == 0 {
		return "No hay FAQs disponibles."
	}
	lines := make([]string, len(faqs))
	for i, f := range faqs {
		lines[i] = fmt.Sprintf("Pregunta: %s Respuesta: %s", f.Question, f.Answer)
	}
	return strings.Join(lines, "\n")
}

// RenderProducts flattens products into the prompt text form.
func RenderProducts(products []Product) string {
	if len(products) == 0 {
		return "No hay productos disponibles."
	}
	lines := make([]string, len(products))
	for i, p := range products {
		lines[i] = fmt.Sprintf("%s: %s - $%.2f", p.Name, p.Description, p.Price)
	}
	return strings.Join(lines, "\n")
}
