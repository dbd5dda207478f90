// Package uploads is the JSON/HTTP client for the upload and tracker
// collaborators. Responses vary by service version, so field extraction
// goes through gjson with per-field fallbacks instead of rigid structs.
package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/core"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tabular"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/config"
	apperrors "github.com/dasinspectionapp/equipment-maintainance-sub003/internal/errors"
)

// Client talks to the upload service. Implements ports.UploadServicePort.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *internal.Logger
}

// NewClient creates an upload-service client from config.
func NewClient(cfg config.UploadConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.BearerToken,
		httpClient: &http.Client{Timeout: timeout},
		log:        internal.NewDefaultLogger("UploadClient"),
	}
}

// ListUploads fetches metadata for every uploaded spreadsheet.
func (c *Client) ListUploads(ctx context.Context) ([]tracker.UploadMeta, error) {
	body, err := c.get(ctx, "/api/uploads")
	if err != nil {
		return nil, err
	}

	items := dataArray(body)
	metas := make([]tracker.UploadMeta, 0, len(items))
	for _, item := range items {
		metas = append(metas, parseUploadMeta(item))
	}
	return metas, nil
}

// GetUpload fetches the full dataset of one uploaded file.
func (c *Client) GetUpload(ctx context.Context, fileID core.UploadID) (tabular.Dataset, error) {
	body, err := c.get(ctx, "/api/uploads/"+string(fileID))
	if err != nil {
		return tabular.Dataset{}, err
	}

	root := gjson.ParseBytes(body)
	payload := root.Get("data")
	if !payload.Exists() {
		payload = root
	}

	var ds tabular.Dataset
	for _, h := range payload.Get("headers").Array() {
		ds.Headers = append(ds.Headers, h.String())
	}
	for _, raw := range payload.Get("rows").Array() {
		row := make(tabular.Row, len(ds.Headers))
		raw.ForEach(func(key, value gjson.Result) bool {
			row[key.String()] = value.String()
			return true
		})
		// Uniform columns even when the service omits empty cells.
		for _, h := range ds.Headers {
			if _, ok := row[h]; !ok {
				row[h] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	if len(ds.Headers) == 0 {
		return tabular.Dataset{}, apperrors.UploadNotFound(string(fileID))
	}
	return ds, nil
}

// SaveRows writes edited rows back to an uploaded file.
func (c *Client) SaveRows(ctx context.Context, fileID core.UploadID, rows []tabular.Row) error {
	payload, err := json.Marshal(map[string]interface{}{"rows": rows})
	if err != nil {
		return apperrors.Wrap(err, "failed to encode rows")
	}
	_, err = c.do(ctx, http.MethodPut, "/api/uploads/"+string(fileID)+"/rows", payload)
	return err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, apperrors.ExternalServiceError("upload-service", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ExternalServiceError("upload-service", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ExternalServiceError("upload-service", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.UploadNotFound(path)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ExternalServiceError("upload-service",
			fmt.Errorf("%s %s returned status %d: %s", method, path, resp.StatusCode, truncate(body, 200)))
	}
	return body, nil
}

// dataArray unwraps the common envelope shapes: a bare array, {"data":[...]}
// or {"items":[...]}.
func dataArray(body []byte) []gjson.Result {
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root.Array()
	}
	for _, key := range []string{"data", "items", "results"} {
		if arr := root.Get(key); arr.IsArray() {
			return arr.Array()
		}
	}
	return nil
}

func parseUploadMeta(item gjson.Result) tracker.UploadMeta {
	meta := tracker.UploadMeta{
		FileID:     core.UploadID(firstString(item, "fileId", "file_id", "id")),
		Name:       firstString(item, "name", "fileName", "file_name"),
		UploadType: tracker.UploadType(firstString(item, "uploadType", "upload_type", "type")),
	}
	// Older service versions predate uploadedAt.
	meta.UploadedAt = firstTime(item, "uploadedAt", "uploaded_at", "createdAt", "created_at")
	return meta
}

func firstString(item gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
}

func firstTime(item gjson.Result, keys ...string) time.Time {
	for _, k := range keys {
		v := item.Get(k)
		if !v.Exists() || v.String() == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v.String()); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func firstTimePtr(item gjson.Result, keys ...string) *time.Time {
	t := firstTime(item, keys...)
	if t.IsZero() {
		return nil
	}
	return &t
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
