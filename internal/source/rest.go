package source

// rest.go fetches records from a paginated JSON API.
//
// Pages after the first are fetched with bounded concurrency, but the
// result is reassembled in page order before it reaches the diff
// engine: record order decides which of two duplicate slugs wins, so
// fetch-completion order must never leak into the record list.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmsbridge/importer/internal/importer"
	"golang.org/x/sync/errgroup"
)

// PageFetchConcurrency is the number of page requests in flight at
// once.
const PageFetchConcurrency = 4

// fieldDecl is the API's declared schema for one record field.
type fieldDecl struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// recordsPage is one page of the records API response.
type recordsPage struct {
	Fields     []fieldDecl      `json:"fields"`
	Records    []map[string]any `json:"records"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

// FetchRecords downloads every page of a remote record source and
// returns the flattened record set plus the source's declared fields.
// The schema inference scan is skipped for API sources; the declared
// types stand in for inferred ones.
//
// Cancellation is cooperative: cancelling ctx aborts in-flight page
// requests and FetchRecords returns without partial results.
func FetchRecords(ctx context.Context, session *Session) (*importer.RecordSet, []importer.InferredField, error) {
	first, err := fetchPage(ctx, session, 1)
	if err != nil {
		return nil, nil, err
	}

	pages := make([]*recordsPage, first.TotalPages)
	if first.TotalPages > 0 {
		pages[0] = first
	} else {
		pages = []*recordsPage{first}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(PageFetchConcurrency)
	for n := 2; n <= first.TotalPages; n++ {
		n := n
		g.Go(func() error {
			page, err := fetchPage(gctx, session, n)
			if err != nil {
				return err
			}
			pages[n-1] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	fields := declaredFields(first.Fields)

	set := &importer.RecordSet{}
	for _, f := range fields {
		set.Columns = append(set.Columns, f.Column)
	}
	for _, page := range pages {
		for _, raw := range page.Records {
			record := make(importer.RawRecord, len(raw))
			for key, value := range raw {
				if s, ok := flattenValue(value); ok {
					record[key] = s
				}
			}
			set.Records = append(set.Records, record)
		}
	}

	return set, fields, nil
}

func fetchPage(ctx context.Context, session *Session, page int) (*recordsPage, error) {
	url := fmt.Sprintf("%s/records?page=%d", strings.TrimSuffix(session.BaseURL, "/"), page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := session.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch page %d: %s: %s", page, resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed recordsPage
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}
	return &parsed, nil
}

// declaredFields converts the API's field declarations into the
// importer's inferred-field shape. Unknown declared types fall back to
// string rather than failing the fetch.
func declaredFields(decls []fieldDecl) []importer.InferredField {
	fields := make([]importer.InferredField, 0, len(decls))
	for _, d := range decls {
		t := importer.VirtualType(d.Type)
		switch t {
		case importer.TypeString, importer.TypeFormattedText, importer.TypeNumber,
			importer.TypeBoolean, importer.TypeDate, importer.TypeDateTime,
			importer.TypeColor, importer.TypeLink, importer.TypeImage,
			importer.TypeFile, importer.TypeEnum:
		default:
			t = importer.TypeString
		}
		fields = append(fields, importer.InferredField{
			Column:       d.Name,
			Name:         d.Name,
			Type:         t,
			AllowedTypes: importer.AllowedTargetTypes(t),
		})
	}
	return fields
}

// flattenValue renders a typed API value as the raw string the value
// converter consumes. ok is false for nulls, which stay absent from the
// record.
func flattenValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			if s, ok := flattenValue(elem); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(encoded), true
	}
}
