package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreatePlayer(ctx context.Context, name, world, industry, careerPath, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/players", "", map[string]any{
		"display_name": name,
		"world":        world,
		"industry":     industry,
		"career_path":  careerPath,
	}, &out, idem)
	return out, err
}

func (c *Client) Dashboard(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/dashboard", token, nil, &out, "")
	return out, err
}

func (c *Client) AllocateStat(ctx context.Context, token, stat string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/stats/allocate", token, map[string]any{
		"stat": stat,
	}, &out, "")
	return out, err
}

func (c *Client) ListScenarios(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/scenarios", token, nil, &out, "")
	return out, err
}

func (c *Client) ChooseScenario(ctx context.Context, token string, scenarioID int64, choice, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/scenarios/%d/choose", scenarioID), token, map[string]any{
		"choice": choice,
	}, &out, idem)
	return out, err
}

func (c *Client) ListChallenges(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/challenges", token, nil, &out, "")
	return out, err
}

func (c *Client) AnswerChallenge(ctx context.Context, token string, challengeID int64, answer float64, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/challenges/%d/answer", challengeID), token, map[string]any{
		"answer": answer,
	}, &out, idem)
	return out, err
}

func (c *Client) CompanyNews(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/company/news", token, nil, &out, "")
	return out, err
}

func (c *Client) QuarterHistory(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/company/quarters", token, nil, &out, "")
	return out, err
}

func (c *Client) ListAdvisors(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/advisors", token, nil, &out, "")
	return out, err
}

func (c *Client) RecruitAdvisor(ctx context.Context, token, code, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/advisors/"+url.PathEscape(code)+"/recruit", token, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) ListAbilities(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/abilities", token, nil, &out, "")
	return out, err
}

func (c *Client) UnlockAbility(ctx context.Context, token, code string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/abilities/"+url.PathEscape(code)+"/unlock", token, map[string]any{}, &out, "")
	return out, err
}

func (c *Client) ActivateAbility(ctx context.Context, token, code string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/abilities/"+url.PathEscape(code)+"/activate", token, map[string]any{}, &out, "")
	return out, err
}

func (c *Client) ListShop(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/shop", token, nil, &out, "")
	return out, err
}

func (c *Client) BuyItem(ctx context.Context, token, code, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/shop/"+url.PathEscape(code)+"/buy", token, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) SellItem(ctx context.Context, token, code, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/shop/"+url.PathEscape(code)+"/sell", token, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) EquipItem(ctx context.Context, token, code string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/shop/"+url.PathEscape(code)+"/equip", token, map[string]any{}, &out, "")
	return out, err
}

func (c *Client) CollectIdle(ctx context.Context, token, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/idle/collect", token, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) Prestige(ctx context.Context, token, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/prestige", token, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) Leaderboard(ctx context.Context, limit int) (map[string]any, error) {
	path := "/v1/leaderboard"
	if limit > 0 {
		path = fmt.Sprintf("/v1/leaderboard?limit=%d", limit)
	}
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, path, "", nil, &out, "")
	return out, err
}

func (c *Client) SyncReplay(ctx context.Context, token string, commands []map[string]any) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sync/replay", token, map[string]any{
		"commands": commands,
	}, &out, "")
	return out, err
}

func (c *Client) Do(ctx context.Context, method, path, token string, body map[string]any, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, method, path, token, body, &out, idem)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path, token string, in any, out any, idem string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idem != "" {
		req.Header.Set("Idempotency-Key", idem)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
