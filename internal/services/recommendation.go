package services

import (
	"fmt"
	"strings"

	"zokoai-middleware/internal/models"
)

const (
	maxCarouselElements = 5
	maxSubtitleRunes    = 80
)

// FilterProducts keeps the products whose title or any tag contains at
// least one keyword. Matching is a case-insensitive substring check, not
// tokenized: partial word matches count.
func FilterProducts(products []models.Product, keywords []string) []models.Product {
	var recs []models.Product
	for _, p := range products {
		if productMatches(p, keywords) {
			recs = append(recs, p)
		}
	}
	return recs
}

func productMatches(p models.Product, keywords []string) bool {
	title := strings.ToLower(p.Title)
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(title, kw) {
			return true
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), kw) {
				return true
			}
		}
	}
	return false
}

// BuildCarousel derives a carousel from the first five products. The
// subtitle is the product body truncated to 80 characters plus an ellipsis.
func BuildCarousel(products []models.Product, storeName string) models.Carousel {
	elements := make([]models.CarouselElement, 0, maxCarouselElements)
	for _, p := range products {
		if len(elements) == maxCarouselElements {
			break
		}
		imageURL := ""
		if len(p.Images) > 0 {
			imageURL = p.Images[0].Src
		}
		elements = append(elements, models.CarouselElement{
			Title:     p.Title,
			ImageURL:  imageURL,
			ActionURL: fmt.Sprintf("https://%s.myshopify.com/products/%s", storeName, p.Handle),
			Subtitle:  truncate(p.BodyHTML, maxSubtitleRunes) + "…",
		})
	}
	return models.Carousel{Type: "carousel", Elements: elements}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
