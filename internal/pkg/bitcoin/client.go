// Package bitcoin consulta a cotação atual do Bitcoin na API pública do CoinGecko.
// Em qualquer falha (não-2xx, timeout, payload malformado) a cotação de fallback é
// retornada no lugar de um erro: o endpoint de cotação nunca falha por indisponibilidade
// da fonte externa.
package bitcoin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"rioportop2p/internal/domain"
	"rioportop2p/internal/pkg/logger"
)

// Valores de fallback usados quando a API externa está indisponível.
const (
	FallbackPriceBRL  = 250000.0
	FallbackPriceUSD  = 50000.0
	FallbackChange24h = 2.5
	FallbackVolume24h = 1000000000.0
)

// Client busca a cotação do Bitcoin em BRL/USD.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logger.Logger
}

// NewClient cria um novo cliente de cotação apontando para a API do CoinGecko.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     log,
	}
}

// coinGeckoResponse espelha o payload de /simple/price para ids=bitcoin.
type coinGeckoResponse struct {
	Bitcoin struct {
		BRL          *float64 `json:"brl"`
		USD          *float64 `json:"usd"`
		BRL24hChange float64  `json:"brl_24h_change"`
		BRL24hVol    float64  `json:"brl_24h_vol"`
	} `json:"bitcoin"`
}

// GetPrice retorna a cotação atual do Bitcoin. Nunca retorna erro: qualquer
// falha de rede ou de payload cai para os valores de fallback.
func (c *Client) GetPrice(ctx context.Context) domain.BitcoinPrice {
	params := url.Values{}
	params.Set("ids", "bitcoin")
	params.Set("vs_currencies", "brl,usd")
	params.Set("include_24hr_change", "true")
	params.Set("include_24hr_vol", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		c.logger.Error("Falha ao montar requisição de cotação.", err)
		return c.fallback()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Falha ao consultar a API de cotação de Bitcoin.", err)
		return c.fallback()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("API de cotação retornou status inesperado. Usando fallback.", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return c.fallback()
	}

	var payload coinGeckoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Error("Payload da API de cotação malformado. Usando fallback.", err)
		return c.fallback()
	}

	// Preço ausente no payload também conta como resposta malformada.
	if payload.Bitcoin.BRL == nil || payload.Bitcoin.USD == nil {
		c.logger.Warn("Payload da API de cotação sem preços. Usando fallback.", nil)
		return c.fallback()
	}

	return domain.BitcoinPrice{
		PriceBRL:    *payload.Bitcoin.BRL,
		PriceUSD:    *payload.Bitcoin.USD,
		LastUpdated: time.Now().UTC(),
		Change24h:   payload.Bitcoin.BRL24hChange,
		Volume24h:   payload.Bitcoin.BRL24hVol,
	}
}

func (c *Client) fallback() domain.BitcoinPrice {
	return domain.BitcoinPrice{
		PriceBRL:    FallbackPriceBRL,
		PriceUSD:    FallbackPriceUSD,
		LastUpdated: time.Now().UTC(),
		Change24h:   FallbackChange24h,
		Volume24h:   FallbackVolume24h,
	}
}
