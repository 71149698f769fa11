package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const maxErrorBody = 32 << 10

// Supabase talks to the record store through its PostgREST endpoint.
type Supabase struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type SupabaseConfig struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
}

func NewSupabase(cfg SupabaseConfig) (*Supabase, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Supabase{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: client,
	}, nil
}

func (s *Supabase) Find(ctx context.Context, q Query, dest any) error {
	if err := checkCollection(q.Collection); err != nil {
		return err
	}
	if q.empty() {
		return resetSlice(dest)
	}
	params := filterParams(q.Filters)
	if len(q.Columns) > 0 {
		params.Set("select", strings.Join(q.Columns, ","))
	}
	if len(q.Orders) > 0 {
		parts := make([]string, len(q.Orders))
		for i, o := range q.Orders {
			dir := "desc"
			if o.Ascending {
				dir = "asc"
			}
			parts[i] = o.Column + "." + dir
		}
		params.Set("order", strings.Join(parts, ","))
	}
	if q.Max > 0 {
		params.Set("limit", strconv.Itoa(q.Max))
	}

	body, _, err := s.do(ctx, http.MethodGet, q.Collection, params, nil, "")
	if err != nil {
		return errors.Wrapf(err, "supabase find %s", q.Collection)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return errors.Wrapf(err, "supabase decode %s", q.Collection)
	}
	return nil
}

func (s *Supabase) Count(ctx context.Context, q Query) (int, error) {
	if err := checkCollection(q.Collection); err != nil {
		return 0, err
	}
	if q.empty() {
		return 0, nil
	}
	_, header, err := s.do(ctx, http.MethodHead, q.Collection, filterParams(q.Filters), nil, "count=exact")
	if err != nil {
		return 0, errors.Wrapf(err, "supabase count %s", q.Collection)
	}
	n, err := parseContentRange(header.Get("Content-Range"))
	if err != nil {
		return 0, errors.Wrapf(err, "supabase count %s", q.Collection)
	}
	return n, nil
}

func (s *Supabase) Upsert(ctx context.Context, c Collection, values Values, onConflict []string, dest any) error {
	if err := checkCollection(c); err != nil {
		return err
	}
	params := url.Values{}
	prefer := "return=representation"
	if len(onConflict) > 0 {
		params.Set("on_conflict", strings.Join(onConflict, ","))
		prefer += ",resolution=merge-duplicates"
	}

	body, _, err := s.do(ctx, http.MethodPost, c, params, []Values{values}, prefer)
	if err != nil {
		return errors.Wrapf(err, "supabase upsert %s", c)
	}
	if dest == nil {
		return nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return errors.Wrapf(err, "supabase decode %s", c)
	}
	if len(rows) == 0 {
		return errors.Errorf("supabase upsert %s: no row returned", c)
	}
	return errors.Wrapf(json.Unmarshal(rows[0], dest), "supabase decode %s", c)
}

func (s *Supabase) Update(ctx context.Context, q Query, values Values, dest any) error {
	if err := checkCollection(q.Collection); err != nil {
		return err
	}
	if len(q.Filters) == 0 {
		return fmt.Errorf("update %s: refusing to update without filters", q.Collection)
	}
	if q.empty() {
		return resetSlice(dest)
	}
	body, _, err := s.do(ctx, http.MethodPatch, q.Collection, filterParams(q.Filters), values, "return=representation")
	if err != nil {
		return errors.Wrapf(err, "supabase update %s", q.Collection)
	}
	if dest == nil {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(body, dest), "supabase decode %s", q.Collection)
}

func (s *Supabase) Delete(ctx context.Context, q Query) (int, error) {
	if err := checkCollection(q.Collection); err != nil {
		return 0, err
	}
	if len(q.Filters) == 0 {
		return 0, fmt.Errorf("delete %s: refusing to delete without filters", q.Collection)
	}
	if q.empty() {
		return 0, nil
	}
	body, _, err := s.do(ctx, http.MethodDelete, q.Collection, filterParams(q.Filters), nil, "return=representation")
	if err != nil {
		return 0, errors.Wrapf(err, "supabase delete %s", q.Collection)
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, errors.Wrapf(err, "supabase decode %s", q.Collection)
	}
	return len(rows), nil
}

func (s *Supabase) do(ctx context.Context, method string, c Collection, params url.Values, payload any, prefer string) ([]byte, http.Header, error) {
	reqURL := s.baseURL + "/rest/v1/" + string(c)
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, errors.Wrap(err, "marshal body")
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil, errors.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, nil, errors.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read response")
	}
	return body, resp.Header, nil
}

func filterParams(filters []Filter) url.Values {
	params := url.Values{}
	for _, f := range filters {
		switch f.Op {
		case OpIsNull:
			params.Add(f.Column, "is.null")
		case OpIn:
			items := make([]string, len(f.Values))
			for i, v := range f.Values {
				items[i] = strconv.Quote(formatValue(v))
			}
			params.Add(f.Column, "in.("+strings.Join(items, ",")+")")
		case OpILike:
			params.Add(f.Column, "ilike."+strings.ReplaceAll(formatValue(f.Value), "%", "*"))
		default:
			params.Add(f.Column, string(f.Op)+"."+formatValue(f.Value))
		}
	}
	return params
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// parseContentRange reads the total from "0-9/42" or "*/0".
func parseContentRange(h string) (int, error) {
	i := strings.LastIndex(h, "/")
	if i < 0 || i == len(h)-1 {
		return 0, errors.Errorf("unexpected Content-Range %q", h)
	}
	total := h[i+1:]
	if total == "*" {
		return 0, errors.Errorf("Content-Range %q has no exact count", h)
	}
	return strconv.Atoi(total)
}
