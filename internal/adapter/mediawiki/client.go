// Package mediawiki is the wiki site adapter: a thin client over the
// MediaWiki HTTP API. Callers treat per-page failures as recoverable;
// one page failing to save must never abort a batch over thousands.
package mediawiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/giellatekno/termwiki/internal/config"
)

// Client talks to one MediaWiki installation. Login must be called
// before any mutating operation; the session lives in the cookie jar.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger

	csrfToken string
}

// NewClient creates a Client for the configured wiki.
func NewClient(cfg config.WikiConfig, logger *slog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("mediawiki: cookie jar: %w", err)
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/") + "/api.php",
		httpClient: &http.Client{Timeout: cfg.Timeout, Jar: jar},
		log:        logger.With("adapter", "mediawiki"),
	}, nil
}

// NewClientWithURL creates a Client against a raw api.php URL (for testing).
func NewClientWithURL(apiURL string, logger *slog.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL:    apiURL,
		httpClient: &http.Client{Jar: jar},
		log:        logger.With("adapter", "mediawiki"),
	}
}

// PageURL returns the dereferenceable URL of a page, for log lines.
func (c *Client) PageURL(title string) string {
	base := strings.TrimSuffix(c.baseURL, "/api.php")
	return base + "/index.php/" + url.PathEscape(title)
}

// Login performs the two-step token dance: fetch a login token, then
// post the credentials, then fetch the CSRF token used by every
// mutating call.
func (c *Client) Login(ctx context.Context, username, password string) error {
	loginToken, err := c.fetchToken(ctx, "login")
	if err != nil {
		return fmt.Errorf("mediawiki: login token: %w", err)
	}

	var resp loginResponse
	err = c.post(ctx, url.Values{
		"action":     {"login"},
		"lgname":     {username},
		"lgpassword": {password},
		"lgtoken":    {loginToken},
	}, &resp)
	if err != nil {
		return fmt.Errorf("mediawiki: login: %w", err)
	}
	if resp.Login.Result != "Success" {
		return fmt.Errorf("mediawiki: login rejected: %s", resp.Login.Result)
	}

	c.csrfToken, err = c.fetchToken(ctx, "csrf")
	if err != nil {
		return fmt.Errorf("mediawiki: csrf token: %w", err)
	}

	c.log.InfoContext(ctx, "logged in", slog.String("user", username))
	return nil
}

// PageText fetches the current wikitext of a page. A missing page
// returns "", nil — absence is not an error for batch loops.
func (c *Client) PageText(ctx context.Context, title string) (string, error) {
	var resp queryResponse
	err := c.get(ctx, url.Values{
		"action": {"query"},
		"prop":   {"revisions"},
		"rvprop": {"content"},
		"titles": {title},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("mediawiki: page text %q: %w", title, err)
	}

	for _, page := range resp.Query.Pages {
		if page.Missing {
			return "", nil
		}
		if len(page.Revisions) > 0 {
			return page.Revisions[0].Content, nil
		}
	}
	return "", nil
}

// SavePage writes new wikitext to a page with an edit summary.
func (c *Client) SavePage(ctx context.Context, title, content, summary string) error {
	var resp editResponse
	err := c.post(ctx, url.Values{
		"action":  {"edit"},
		"title":   {title},
		"text":    {content},
		"summary": {summary},
		"bot":     {"1"},
		"token":   {c.csrfToken},
	}, &resp)
	if err != nil {
		return fmt.Errorf("mediawiki: save %q: %w", title, err)
	}
	if resp.Edit.Result != "Success" {
		return fmt.Errorf("mediawiki: save %q rejected: %s", title, resp.Edit.Result)
	}
	return nil
}

// DeletePage deletes a page with a reason.
func (c *Client) DeletePage(ctx context.Context, title, reason string) error {
	err := c.post(ctx, url.Values{
		"action": {"delete"},
		"title":  {title},
		"reason": {reason},
		"token":  {c.csrfToken},
	}, nil)
	if err != nil {
		return fmt.Errorf("mediawiki: delete %q: %w", title, err)
	}
	return nil
}

// MovePage renames a page without leaving a redirect behind.
func (c *Client) MovePage(ctx context.Context, from, to, reason string) error {
	err := c.post(ctx, url.Values{
		"action":     {"move"},
		"from":       {from},
		"to":         {to},
		"reason":     {reason},
		"noredirect": {"1"},
		"token":      {c.csrfToken},
	}, nil)
	if err != nil {
		return fmt.Errorf("mediawiki: move %q to %q: %w", from, to, err)
	}
	return nil
}

// CategoryMembers enumerates every page title in a category, following
// API continuation until the listing is exhausted.
func (c *Client) CategoryMembers(ctx context.Context, category string) ([]string, error) {
	var titles []string
	cont := ""
	for {
		values := url.Values{
			"action":  {"query"},
			"list":    {"categorymembers"},
			"cmtitle": {"Category:" + category},
			"cmlimit": {"500"},
		}
		if cont != "" {
			values.Set("cmcontinue", cont)
		}

		var resp queryResponse
		if err := c.get(ctx, values, &resp); err != nil {
			return nil, fmt.Errorf("mediawiki: category %q: %w", category, err)
		}
		for _, member := range resp.Query.CategoryMembers {
			titles = append(titles, member.Title)
		}
		if resp.Continue.CmContinue == "" {
			return titles, nil
		}
		cont = resp.Continue.CmContinue
	}
}

// AllCategories enumerates every category name on the wiki, following
// API continuation until the listing is exhausted.
func (c *Client) AllCategories(ctx context.Context) ([]string, error) {
	var names []string
	cont := ""
	for {
		values := url.Values{
			"action":  {"query"},
			"list":    {"allcategories"},
			"aclimit": {"500"},
		}
		if cont != "" {
			values.Set("accontinue", cont)
		}

		var resp queryResponse
		if err := c.get(ctx, values, &resp); err != nil {
			return nil, fmt.Errorf("mediawiki: all categories: %w", err)
		}
		for _, cat := range resp.Query.AllCategories {
			names = append(names, cat.Category)
		}
		if resp.Continue.AcContinue == "" {
			return names, nil
		}
		cont = resp.Continue.AcContinue
	}
}

// RecentChanges returns the titles of the n most recently changed
// pages, newest first, deduplicated.
func (c *Client) RecentChanges(ctx context.Context, n int) ([]string, error) {
	var resp queryResponse
	err := c.get(ctx, url.Values{
		"action":  {"query"},
		"list":    {"recentchanges"},
		"rcprop":  {"title"},
		"rclimit": {strconv.Itoa(n)},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("mediawiki: recent changes: %w", err)
	}

	seen := make(map[string]bool, n)
	var titles []string
	for _, change := range resp.Query.RecentChanges {
		if !seen[change.Title] {
			seen[change.Title] = true
			titles = append(titles, change.Title)
		}
	}
	return titles, nil
}

func (c *Client) fetchToken(ctx context.Context, kind string) (string, error) {
	var resp tokenResponse
	err := c.get(ctx, url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {kind},
	}, &resp)
	if err != nil {
		return "", err
	}

	token := resp.Query.Tokens[kind+"token"]
	if token == "" {
		return "", fmt.Errorf("empty %s token", kind)
	}
	return token, nil
}

func (c *Client) get(ctx context.Context, values url.Values, out any) error {
	values.Set("format", "json")
	values.Set("formatversion", "2")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, values url.Values, out any) error {
	values.Set("format", "json")
	values.Set("formatversion", "2")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Code != "" {
		return fmt.Errorf("api error %s: %s", apiErr.Error.Code, apiErr.Error.Info)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
