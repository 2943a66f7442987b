package providers

import "context"

// Variant is the purchasable SKU shape returned by the admin API.
type Variant struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Grams     int64  `json:"grams"`
	ImageID   int64  `json:"image_id"`
	Image     *Image `json:"image,omitempty"`
}

// Product is the parent product of a variant.
type Product struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Handle string  `json:"handle"`
	Images []Image `json:"images"`
}

// Image is a product or variant image.
type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

// Metafield is an arbitrary key/value annotation on a commerce object.
type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// DraftOrderAddress is a shipping/billing address with empty fields omitted.
type DraftOrderAddress struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Province  string `json:"province,omitempty"`
	Address1  string `json:"address1,omitempty"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
}

// DraftOrderLineItem is one line of a draft order.
type DraftOrderLineItem struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

// DraftOrder is the creation payload and, on success, the created object.
type DraftOrder struct {
	ID                        int64                `json:"id,omitempty"`
	LineItems                 []DraftOrderLineItem `json:"line_items,omitempty"`
	Email                     string               `json:"email,omitempty"`
	Note                      string               `json:"note,omitempty"`
	ShippingAddress           *DraftOrderAddress   `json:"shipping_address,omitempty"`
	BillingAddress            *DraftOrderAddress   `json:"billing_address,omitempty"`
	Tags                      string               `json:"tags,omitempty"`
	UseCustomerDefaultAddress bool                 `json:"use_customer_default_address,omitempty"`
	InvoiceURL                string               `json:"invoice_url,omitempty"`
}

// API is the subset of the Shopify Admin REST API the quote builder uses.
type API interface {
	// GetVariant fetches a variant by ID; ErrNotFound when the store has no
	// such variant.
	GetVariant(ctx context.Context, variantID int64) (*Variant, error)

	// GetProduct fetches a product by ID.
	GetProduct(ctx context.Context, productID int64) (*Product, error)

	// VariantExists reports whether the variant exists in this store.
	VariantExists(ctx context.Context, variantID int64) (bool, error)

	// VariantMetafields lists the metafields attached to a variant.
	VariantMetafields(ctx context.Context, variantID int64) ([]Metafield, error)

	// ProductMetafields lists the metafields attached to a product.
	ProductMetafields(ctx context.Context, productID int64) ([]Metafield, error)

	// CreateDraftOrder creates a draft order; upstream rejections come back
	// as *APIError.
	CreateDraftOrder(ctx context.Context, draft DraftOrder) (*DraftOrder, error)

	// Domain returns the shop domain this client targets.
	Domain() string
}
