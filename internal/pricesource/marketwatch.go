package pricesource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	marketwatchBaseURL = "https://www.marketwatch.com/investing/stock"
	marketwatchUA      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

	// MarketWatch uses US-style dates in both query parameters and CSV rows.
	marketwatchDateFormat = "01/02/2006"
)

// MarketWatch downloads historical daily quotes as CSV from MarketWatch.
// The CSV header is Date,Open,High,Low,Close; prices may carry thousands
// separators. The close column is used as the day's price.
type MarketWatch struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewMarketWatch creates a MarketWatch quote source using the given HTTP client.
func NewMarketWatch(httpClient *http.Client) *MarketWatch {
	return &MarketWatch{httpClient: httpClient, baseURL: marketwatchBaseURL}
}

// NewMarketWatchWithBase creates a MarketWatch quote source that downloads
// from the given base URL instead of marketwatch.com, for use behind proxies
// and in tests.
func NewMarketWatchWithBase(httpClient *http.Client, baseURL string) *MarketWatch {
	return &MarketWatch{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the source's display name.
func (m *MarketWatch) Name() string { return "MarketWatch" }

// Fetch downloads and parses daily close prices for the identifier over the range.
func (m *MarketWatch) Fetch(ctx context.Context, identifier string, r DateRange) ([]Observation, error) {
	if identifier == "" {
		return nil, &FetchError{Source: m.Name(), Identifier: identifier, Err: fmt.Errorf("empty identifier")}
	}

	endpoint := fmt.Sprintf("%s/%s/downloaddatapartial", m.baseURL, url.PathEscape(identifier))
	q := url.Values{}
	q.Set("startdate", r.Start.Format(marketwatchDateFormat))
	q.Set("enddate", r.End.Format(marketwatchDateFormat))
	q.Set("csvdownload", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Source: m.Name(), Identifier: identifier, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("User-Agent", marketwatchUA)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Source: m.Name(), Identifier: identifier, Err: fmt.Errorf("http request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Source: m.Name(), Identifier: identifier, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	obs, err := parseQuoteCSV(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: m.Name(), Identifier: identifier, Err: err}
	}
	return obs, nil
}

// parseQuoteCSV reads the MarketWatch download CSV into observations.
func parseQuoteCSV(body io.Reader) ([]Observation, error) {
	reader := csv.NewReader(body)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty response")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	dateCol, closeCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, fmt.Errorf("csv is missing Date or Close column")
	}

	var observations []Observation
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		date, err := time.Parse(marketwatchDateFormat, strings.TrimSpace(record[dateCol]))
		if err != nil {
			return nil, fmt.Errorf("bad date %q: %w", record[dateCol], err)
		}

		raw := strings.ReplaceAll(strings.TrimSpace(record[closeCol]), ",", "")
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("bad price %q: %w", record[closeCol], err)
		}

		observations = append(observations, Observation{Date: Day(date), Price: price})
	}

	if len(observations) == 0 {
		return nil, fmt.Errorf("no quotes in response")
	}
	return observations, nil
}
