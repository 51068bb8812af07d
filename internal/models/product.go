package models

// ProductImage is a single catalog product image.
type ProductImage struct {
	Src string `json:"src"`
}

// Product is a read-only snapshot of a catalog product, as returned by the
// Shopify admin API. Tags arrive as a comma-separated string on the wire and
// are split by the catalog client.
type Product struct {
	Title    string         `json:"title"`
	Handle   string         `json:"handle"`
	BodyHTML string         `json:"body_html"`
	Tags     []string       `json:"-"`
	Images   []ProductImage `json:"images"`
}

// CarouselElement is one card of an outbound carousel message.
type CarouselElement struct {
	Title     string `json:"title"`
	ImageURL  string `json:"imageUrl"`
	ActionURL string `json:"actionUrl"`
	Subtitle  string `json:"subtitle"`
}

// Carousel is the interactive multi-card message sent through the messaging
// gateway. Ephemeral; built per request from a product list.
type Carousel struct {
	Type     string            `json:"type"`
	Elements []CarouselElement `json:"elements"`
}
