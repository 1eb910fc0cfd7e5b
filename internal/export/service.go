package export

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"so101builder/internal/core"
	"so101builder/internal/logger"
	"so101builder/internal/pricing"
	"so101builder/internal/setup"
	"so101builder/internal/storage"
)

// Uploader stores a rendered file and returns where it can be downloaded.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type Service struct {
	catalog  core.CatalogReader
	setups   core.SetupReader
	uploader Uploader
	log      *logger.Logger
	now      func() time.Time
}

// NewService builds the export service. uploader may be nil, in which case
// files are only returned inline.
func NewService(catalog core.CatalogReader, setups core.SetupReader, uploader Uploader, log *logger.Logger) *Service {
	return &Service{
		catalog:  catalog,
		setups:   setups,
		uploader: uploader,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) load(ctx context.Context, setupID string) (*setup.Setup, []pricing.Line, error) {
	st, err := s.setups.Get(ctx, setupID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := pricing.LoadLines(ctx, s.catalog, st.Selections)
	if err != nil {
		return nil, nil, err
	}
	return st, lines, nil
}

func (s *Service) ShoppingList(ctx context.Context, setupID string) (*ShoppingList, error) {
	st, lines, err := s.load(ctx, setupID)
	if err != nil {
		return nil, err
	}
	return BuildShoppingList(st, lines), nil
}

type JSONRequest struct {
	SetupID       string `json:"setup_id"`
	IncludePrices *bool  `json:"include_prices"`
}

// JSON renders the BOM document. Upload failures are logged and the file is
// still returned inline.
func (s *Service) JSON(ctx context.Context, req JSONRequest) (*File, error) {
	st, lines, err := s.load(ctx, req.SetupID)
	if err != nil {
		return nil, err
	}

	includePrices := req.IncludePrices == nil || *req.IncludePrices
	bom := BuildBOM(st, lines, includePrices, s.now())

	data, err := json.MarshalIndent(bom, "", "  ")
	if err != nil {
		return nil, err
	}
	content := string(data)

	file := &File{
		SetupID:     st.ID,
		Format:      FormatJSON,
		Filename:    "so101-setup-" + st.ID + ".json",
		Content:     &content,
		FileSize:    len(data),
		data:        data,
		contentType: "application/json",
	}
	s.upload(ctx, file, ".json")
	return file, nil
}

// XLSX renders the shopping list workbook and uploads it when storage is
// configured.
func (s *Service) XLSX(ctx context.Context, setupID string) (*File, error) {
	list, err := s.ShoppingList(ctx, setupID)
	if err != nil {
		return nil, err
	}
	data, err := WriteShoppingListXLSX(list)
	if err != nil {
		return nil, err
	}

	file := &File{
		SetupID:     list.SetupID,
		Format:      FormatXLSX,
		Filename:    "so101-shopping-list-" + list.SetupID + ".xlsx",
		FileSize:    len(data),
		data:        data,
		contentType: xlsxContentType,
	}
	s.upload(ctx, file, ".xlsx")
	return file, nil
}

func (s *Service) upload(ctx context.Context, file *File, ext string) {
	if s.uploader == nil {
		return
	}
	key := storage.ObjectKey("exports", file.SetupID, ext, s.now())
	url, err := s.uploader.Upload(ctx, key, bytes.NewReader(file.data), file.contentType)
	if err != nil {
		s.log.Warn("export upload failed", "setup_id", file.SetupID, "key", key, "error", err)
		return
	}
	file.URL = &url
	s.log.Info("export uploaded", "setup_id", file.SetupID, "format", file.Format, "url", url)
}
