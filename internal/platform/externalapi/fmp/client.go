package fmp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"finance_collector/internal/feature/companies/domain/entity"
	"finance_collector/internal/feature/companies/usecase"
	"finance_collector/internal/platform/externalapi/fmp/dto"
)

// Client はFMP外部APIから銘柄一覧と企業プロフィールを取得するクライアントです。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがCatalogSourceとProfileSourceを実装していることをコンパイル時に検証します。
var (
	_ usecase.CatalogSource = (*Client)(nil)
	_ usecase.ProfileSource = (*Client)(nil)
)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// ListStocks は /stock/list から全銘柄の一覧を取得します。
func (c *Client) ListStocks(ctx context.Context) ([]entity.RawSecurity, error) {
	var items []dto.SecurityItem
	if err := c.get(ctx, "/stock/list", &items); err != nil {
		return nil, err
	}
	return toSecurities(items), nil
}

// ListAvailableSecurities は /symbol/available-securities から取引可能な銘柄の一覧を取得します。
func (c *Client) ListAvailableSecurities(ctx context.Context) ([]entity.RawSecurity, error) {
	var items []dto.SecurityItem
	if err := c.get(ctx, "/symbol/available-securities", &items); err != nil {
		return nil, err
	}
	return toSecurities(items), nil
}

// GetProfile は /profile/{symbol} から企業プロフィールを取得します。
// プロフィールが存在しない場合は nil, nil を返します。
func (c *Client) GetProfile(ctx context.Context, symbol string) (*entity.RawProfile, error) {
	var items []dto.ProfileItem
	if err := c.get(ctx, "/profile/"+url.PathEscape(symbol), &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	p := items[0]
	return &entity.RawProfile{
		Symbol:      p.Symbol,
		CompanyName: p.CompanyName,
		Sector:      p.Sector,
		Industry:    p.Industry,
		MarketCap:   p.MktCap.Float64Ptr(),
		Country:     p.Country,
		Exchange:    p.Exchange,
	}, nil
}

// get はGETリクエストを送信し、JSONレスポンスを out にデコードします。
func (c *Client) get(ctx context.Context, path string, out any) error {
	q := url.Values{}
	q.Set("apikey", c.cfg.APIKey)

	u := fmt.Sprintf("%s%s?%s", strings.TrimRight(c.cfg.BaseURL, "/"), path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("fmp http %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read fmp response: %w", err)
	}

	// 配列を期待するエンドポイントでもエラー時はオブジェクトが返る
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '{' {
		var e dto.ErrorResponse
		if err := json.Unmarshal(trimmed, &e); err == nil && e.ErrorMessage != "" {
			return fmt.Errorf("fmp: %s", e.ErrorMessage)
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode fmp %s: %w", path, err)
	}
	return nil
}

func toSecurities(items []dto.SecurityItem) []entity.RawSecurity {
	out := make([]entity.RawSecurity, 0, len(items))
	for _, it := range items {
		out = append(out, entity.RawSecurity{
			Symbol:            it.Symbol,
			Name:              it.Name,
			Exchange:          it.Exchange,
			ExchangeShortName: it.ExchangeShortName,
			Type:              it.Type,
		})
	}
	return out
}
