package marketdata

import (
	"context"
	"fmt"
	"time"

	"WaveScan/internal/domain/models"
	drepo "WaveScan/internal/domain/repository"
	xhttp "WaveScan/pkg/http"
	"WaveScan/pkg/logger"
)

// RestClient fetches historical candles over the provider's REST API.
// The stream keeps the last price fresh; this fills the bar tables.
type RestClient struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
	log     *logger.Logger
}

func NewRestClient(baseURL, apiKey string, log *logger.Logger) *RestClient {
	return &RestClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
		log:     log,
	}
}

// candleResponse is the provider's column-oriented candle payload.
type candleResponse struct {
	Status  string    `json:"s"`
	Times   []int64   `json:"t"`
	Opens   []float64 `json:"o"`
	Highs   []float64 `json:"h"`
	Lows    []float64 `json:"l"`
	Closes  []float64 `json:"c"`
	Volumes []float64 `json:"v"`
}

// Candles fetches OHLCV history for one symbol and timeframe.
func (c *RestClient) Candles(ctx context.Context, symbol string, tf drepo.Timeframe, from, to time.Time) ([]models.Bar, error) {
	res, err := resolutionForTF(tf)
	if err != nil {
		return nil, err
	}

	var payload candleResponse
	err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {res},
			"from":       {fmt.Sprintf("%d", from.Unix())},
			"to":         {fmt.Sprintf("%d", to.Unix())},
			"token":      {c.apiKey},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("fetch candles %s %s: %w", symbol, tf, err)
	}
	if payload.Status == "no_data" {
		return nil, nil
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("candles %s %s: provider status %q", symbol, tf, payload.Status)
	}

	n := len(payload.Times)
	if len(payload.Opens) != n || len(payload.Highs) != n || len(payload.Lows) != n || len(payload.Closes) != n {
		return nil, fmt.Errorf("candles %s %s: ragged column response", symbol, tf)
	}

	bars := make([]models.Bar, 0, n)
	for i := 0; i < n; i++ {
		b := models.Bar{
			Timestamp: time.Unix(payload.Times[i], 0).UTC(),
			Open:      payload.Opens[i],
			High:      payload.Highs[i],
			Low:       payload.Lows[i],
			Close:     payload.Closes[i],
		}
		if i < len(payload.Volumes) {
			b.Volume = payload.Volumes[i]
		}
		bars = append(bars, b)
	}
	c.log.Debug("candles fetched",
		logger.String("symbol", symbol),
		logger.String("tf", string(tf)),
		logger.Int("rows", len(bars)),
	)
	return bars, nil
}

func resolutionForTF(tf drepo.Timeframe) (string, error) {
	switch tf {
	case drepo.TFM5:
		return "5", nil
	case drepo.TFM15:
		return "15", nil
	case drepo.TFH1:
		return "60", nil
	case drepo.TFH4:
		return "240", nil
	case drepo.TFD1:
		return "D", nil
	default:
		return "", fmt.Errorf("unsupported timeframe %q", tf)
	}
}
