package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Sheet (tab) names on the remote provider.
const (
	SheetMenu   = "Menu"
	SheetConfig = "Config"
)

// FetchError is a failed read against the remote provider: transport,
// non-2xx status, or an undecodable payload.
type FetchError struct {
	Sheet  string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch sheet %s: status %d: %v", e.Sheet, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch sheet %s: %v", e.Sheet, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Cell is a spreadsheet cell value. Providers send numbers or strings
// depending on the column format; both decode to their text form.
type Cell string

func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cell(s)
		return nil
	}
	*c = Cell(data)
	return nil
}

func (c Cell) String() string { return string(c) }

// MenuRow is one catalog row as the provider sends it.
type MenuRow struct {
	ID       Cell `json:"id"`
	Name     Cell `json:"name"`
	Price    Cell `json:"price"`
	Img      Cell `json:"img"`
	Desc     Cell `json:"desc"`
	Stok     Cell `json:"stok"`
	Category Cell `json:"category"`
}

// ConfigRow is one key/value config row.
type ConfigRow struct {
	Key   Cell `json:"key"`
	Value Cell `json:"value"`
}

// Fetcher reads the two provider resources.
type Fetcher interface {
	FetchMenu(ctx context.Context) ([]MenuRow, error)
	FetchConfig(ctx context.Context) ([]ConfigRow, error)
}

// SheetClient reads rows from a spreadsheet-backed JSON endpoint that selects
// the tab with a "sheet" query parameter.
type SheetClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewSheetClient(endpoint string, httpClient *http.Client, logger *zap.Logger) *SheetClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetClient{
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *SheetClient) FetchMenu(ctx context.Context) ([]MenuRow, error) {
	var rows []MenuRow
	if err := c.get(ctx, SheetMenu, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *SheetClient) FetchConfig(ctx context.Context) ([]ConfigRow, error) {
	var rows []ConfigRow
	if err := c.get(ctx, SheetConfig, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *SheetClient) get(ctx context.Context, sheet string, out interface{}) error {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return &FetchError{Sheet: sheet, Err: err}
	}
	q := u.Query()
	q.Set("sheet", sheet)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &FetchError{Sheet: sheet, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Sheet request failed", zap.String("sheet", sheet), zap.Error(err))
		return &FetchError{Sheet: sheet, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &FetchError{Sheet: sheet, Status: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(body)))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Sheet: sheet, Err: fmt.Errorf("decode rows: %w", err)}
	}
	return nil
}
