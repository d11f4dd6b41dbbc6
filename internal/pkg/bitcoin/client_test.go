package bitcoin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rioportop2p/internal/pkg/bitcoin"
	"rioportop2p/internal/pkg/logger"
)

func newClient(t *testing.T, handler http.HandlerFunc) (*bitcoin.Client, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := bitcoin.NewClient(server.URL, 2*time.Second, logger.NewLogger("error"))
	return client, server.Close
}

// TestGetPrice_Success testa o parse do payload real do CoinGecko.
func TestGetPrice_Success(t *testing.T) {
	client, closeFn := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "brl,usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"brl":300000.5,"usd":60000.1,"brl_24h_change":-1.2,"brl_24h_vol":123456789.0}}`))
	})
	defer closeFn()

	price := client.GetPrice(context.Background())

	assert.Equal(t, 300000.5, price.PriceBRL)
	assert.Equal(t, 60000.1, price.PriceUSD)
	assert.Equal(t, -1.2, price.Change24h)
	assert.Equal(t, 123456789.0, price.Volume24h)
	assert.False(t, price.LastUpdated.IsZero())
}

// TestGetPrice_Non2xxUsesFallback testa o fallback em resposta não-2xx.
func TestGetPrice_Non2xxUsesFallback(t *testing.T) {
	client, closeFn := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer closeFn()

	price := client.GetPrice(context.Background())

	assert.Equal(t, bitcoin.FallbackPriceBRL, price.PriceBRL)
	assert.Equal(t, bitcoin.FallbackPriceUSD, price.PriceUSD)
	assert.Equal(t, bitcoin.FallbackChange24h, price.Change24h)
	assert.Equal(t, bitcoin.FallbackVolume24h, price.Volume24h)
}

// TestGetPrice_MalformedPayloadUsesFallback testa o fallback em JSON inválido.
func TestGetPrice_MalformedPayloadUsesFallback(t *testing.T) {
	client, closeFn := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin": not-json`))
	})
	defer closeFn()

	price := client.GetPrice(context.Background())

	assert.Equal(t, bitcoin.FallbackPriceBRL, price.PriceBRL)
}

// TestGetPrice_MissingPricesUsesFallback testa payload 2xx sem os preços.
func TestGetPrice_MissingPricesUsesFallback(t *testing.T) {
	client, closeFn := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin":{}}`))
	})
	defer closeFn()

	price := client.GetPrice(context.Background())

	assert.Equal(t, bitcoin.FallbackPriceBRL, price.PriceBRL)
	assert.Equal(t, bitcoin.FallbackPriceUSD, price.PriceUSD)
}

// TestGetPrice_ConnectionErrorUsesFallback testa o fallback quando a API está fora do ar.
func TestGetPrice_ConnectionErrorUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // Servidor derrubado antes da chamada

	client := bitcoin.NewClient(url, 2*time.Second, logger.NewLogger("error"))
	price := client.GetPrice(context.Background())

	assert.Equal(t, bitcoin.FallbackPriceBRL, price.PriceBRL)
	assert.Equal(t, bitcoin.FallbackVolume24h, price.Volume24h)
}
