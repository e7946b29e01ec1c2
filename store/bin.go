package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBinURL is the public jsonbin.io API root.
const DefaultBinURL = "https://api.jsonbin.io/v3"

// binDocument is the whole remote document: every user lives under one
// key in a single JSON blob.
type binDocument struct {
	Users map[string]*User `json:"users"`
}

// Bin is a remote JSON document store client. The service only supports
// get-latest and put-whole-document, so each PutUser is a full
// read-modify-write of the shared blob. Pair it with UserLocks; the
// remote side has no versioning at all.
type Bin struct {
	baseURL    string
	binID      string
	apiKey     string
	httpClient *http.Client
}

func NewBin(baseURL, binID, apiKey string) *Bin {
	if baseURL == "" {
		baseURL = DefaultBinURL
	}
	return &Bin{
		baseURL: baseURL,
		binID:   binID,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (b *Bin) GetUser(ctx context.Context, username string) (*User, error) {
	doc, err := b.getDocument(ctx)
	if err != nil {
		return nil, err
	}

	u, ok := doc.Users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.Username = username
	return u, nil
}

func (b *Bin) PutUser(ctx context.Context, user *User) error {
	doc, err := b.getDocument(ctx)
	if err != nil {
		return err
	}

	doc.Users[user.Username] = user
	return b.putDocument(ctx, doc)
}

func (b *Bin) Close() error {
	return nil
}

// getDocument fetches the latest revision. A bin that does not exist
// yet reads as an empty user set.
func (b *Bin) getDocument(ctx context.Context) (*binDocument, error) {
	url := fmt.Sprintf("%s/b/%s/latest", b.baseURL, b.binID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Master-Key", b.apiKey)
	req.Header.Set("X-Bin-Meta", "false")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &binDocument{Users: map[string]*User{}}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch document (status %d): %s", resp.StatusCode, string(body))
	}

	doc := &binDocument{}
	if err := json.NewDecoder(resp.Body).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Users == nil {
		doc.Users = map[string]*User{}
	}
	return doc, nil
}

func (b *Bin) putDocument(ctx context.Context, doc *binDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	url := fmt.Sprintf("%s/b/%s", b.baseURL, b.binID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Master-Key", b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("write document (status %d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}
