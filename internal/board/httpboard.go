package board

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/harbor-data/model.report/internal/httputil"
)

// HTTPBoard resolves pins from a remote pin server. It implements the same
// Resolver contract as the local sqlite board; the wire format is
// GET {base}/pins/{name} returning pinResponse.
type HTTPBoard struct {
	base   string
	client httputil.HTTPClient
}

// pinResponse is the remote board's wire form of a pin.
type pinResponse struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Created     string          `json:"created"` // fixed YYYYMMDDTHHMMSSZ stamp
	Description string          `json:"description"`
	ContentType string          `json:"content_type"`
	Payload     json.RawMessage `json:"payload"`
}

// NewHTTPBoard creates a remote board client. A nil client uses the standard
// http.DefaultClient wrapper.
func NewHTTPBoard(base string, client httputil.HTTPClient) (*HTTPBoard, error) {
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid board URL %q", base)
	}
	if client == nil {
		client = httputil.NewStandardClient(nil)
	}
	return &HTTPBoard{base: strings.TrimRight(base, "/"), client: client}, nil
}

// Resolve fetches the latest version of the named pin from the remote board.
func (hb *HTTPBoard) Resolve(ctx context.Context, name string) ([]byte, Meta, error) {
	reqURL := hb.base + "/pins/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, Meta{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hb.client.Do(req)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("board request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, Meta{}, fmt.Errorf("%w: %q", ErrPinNotFound, name)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, Meta{}, fmt.Errorf("board returned status %d for pin %q", resp.StatusCode, name)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to read board response: %w", err)
	}

	var pr pinResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, Meta{}, fmt.Errorf("failed to parse board response for %q: %w", name, err)
	}

	created, err := ParseCreatedStamp(pr.Created)
	if err != nil {
		return nil, Meta{}, err
	}

	meta := Meta{
		Name:        pr.Name,
		Version:     pr.Version,
		Created:     created,
		Description: pr.Description,
		ContentType: pr.ContentType,
	}
	return []byte(pr.Payload), meta, nil
}
