package export

import (
	"time"

	"so101builder/internal/setup"
)

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"

	bomVersion = "1.0"

	unknownVendor = "Unknown"
	tbdVendor     = "TBD"
)

// --------------------------------------------------
// Shopping list
// --------------------------------------------------

type ShoppingItem struct {
	ComponentName string  `json:"component_name"`
	Quantity      int     `json:"quantity"`
	Vendor        string  `json:"vendor"`
	Price         float64 `json:"price"` // line total
	Currency      string  `json:"currency"`
	ProductURL    *string `json:"product_url,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

type ShoppingList struct {
	SetupID    string                    `json:"setup_id"`
	Items      []ShoppingItem            `json:"items"`
	TotalItems int                       `json:"total_items"`
	TotalCost  float64                   `json:"total_cost"`
	Currency   string                    `json:"currency"`
	ByVendor   map[string][]ShoppingItem `json:"by_vendor"`
}

// --------------------------------------------------
// BOM document
// --------------------------------------------------

// BOM is the portable bill of materials. Downstream tooling reads these field
// names; keep them stable.
type BOM struct {
	Version         string                 `json:"version"`
	CreatedAt       time.Time              `json:"created_at"`
	SetupID         string                 `json:"setup_id"`
	Profile         setup.Profile          `json:"profile"`
	ArmType         string                 `json:"arm_type"`
	RobotType       string                 `json:"robot_type"`
	Components      []BOMComponent         `json:"components"`
	Recommendations *setup.Recommendations `json:"recommendations"`
}

type BOMComponent struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	Category       *string        `json:"category"`
	Quantity       int            `json:"quantity"`
	Specifications map[string]any `json:"specifications"`
	Price          *BOMPrice      `json:"price,omitempty"`
}

type BOMPrice struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Vendor   *string `json:"vendor"`
	URL      *string `json:"url"`
}

// File is a rendered export. Content is set for text formats; URL is set
// when the file was uploaded.
type File struct {
	SetupID  string  `json:"setup_id"`
	Format   string  `json:"format"`
	Filename string  `json:"filename"`
	Content  *string `json:"content,omitempty"`
	FileSize int     `json:"file_size"`
	URL      *string `json:"url,omitempty"`

	data        []byte
	contentType string
}

func (f *File) Data() []byte        { return f.data }
func (f *File) ContentType() string { return f.contentType }
