package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zokoai-middleware/internal/models"
)

func TestFilterProductsSubstringMatch(t *testing.T) {
	products := []models.Product{
		{Title: "Trail Running Shoes"},
		{Title: "Espresso Cup", Tags: []string{"kitchen", "ceramics"}},
		{Title: "Winter Jacket", Tags: []string{"snowshoe gear"}},
	}

	recs := FilterProducts(products, []string{"shoe"})
	require.Len(t, recs, 2)
	assert.Equal(t, "Trail Running Shoes", recs[0].Title)
	assert.Equal(t, "Winter Jacket", recs[1].Title, "partial word matches in tags count")
}

func TestFilterProductsCaseInsensitive(t *testing.T) {
	products := []models.Product{{Title: "SHOES"}}
	assert.Len(t, FilterProducts(products, []string{"Shoes"}), 1)
}

func TestFilterProductsNoKeywordsMatchesNothing(t *testing.T) {
	products := []models.Product{{Title: "Shoes"}}
	assert.Empty(t, FilterProducts(products, nil))
	assert.Empty(t, FilterProducts(products, []string{""}))
}

func TestBuildCarouselCapsAtFive(t *testing.T) {
	products := make([]models.Product, 8)
	for i := range products {
		products[i] = models.Product{Title: "P", Handle: "p"}
	}
	carousel := BuildCarousel(products, "teststore")
	assert.Equal(t, "carousel", carousel.Type)
	assert.Len(t, carousel.Elements, 5)
}

func TestBuildCarouselElementFields(t *testing.T) {
	products := []models.Product{{
		Title:    "Trail Shoes",
		Handle:   "trail-shoes",
		BodyHTML: "Short description",
		Images:   []models.ProductImage{{Src: "https://img/1.jpg"}, {Src: "https://img/2.jpg"}},
	}}

	carousel := BuildCarousel(products, "teststore")
	require.Len(t, carousel.Elements, 1)
	el := carousel.Elements[0]
	assert.Equal(t, "Trail Shoes", el.Title)
	assert.Equal(t, "https://img/1.jpg", el.ImageURL, "first image wins")
	assert.Equal(t, "https://teststore.myshopify.com/products/trail-shoes", el.ActionURL)
	assert.Equal(t, "Short description…", el.Subtitle)
}

func TestBuildCarouselSubtitleTruncation(t *testing.T) {
	long := strings.Repeat("a", 200)
	carousel := BuildCarousel([]models.Product{{Title: "P", Handle: "p", BodyHTML: long}}, "s")
	require.Len(t, carousel.Elements, 1)
	subtitle := []rune(carousel.Elements[0].Subtitle)
	assert.Len(t, subtitle, 81)
	assert.Equal(t, '…', subtitle[80])
}

func TestBuildCarouselMissingImage(t *testing.T) {
	carousel := BuildCarousel([]models.Product{{Title: "P", Handle: "p"}}, "s")
	require.Len(t, carousel.Elements, 1)
	assert.Empty(t, carousel.Elements[0].ImageURL)
}
