package lnd

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"lnd-advisor/internal/common/config"
	"lnd-advisor/internal/common/logger"
)

// RESTGateway talks to lnd's REST proxy. Authentication is a hex-encoded
// macaroon sent on every request; transport security is the node's
// self-signed TLS certificate.
type RESTGateway struct {
	baseURL  string
	macaroon string
	client   *http.Client
	logger   logger.Logger
}

func NewRESTGateway(cfg config.LNDConfig, log logger.Logger) (*RESTGateway, error) {
	macBytes, err := os.ReadFile(cfg.MacaroonPath)
	if err != nil {
		return nil, fmt.Errorf("read macaroon: %w", err)
	}

	tlsConfig := &tls.Config{}
	if cfg.TLSCertPath != "" {
		certBytes, err := os.ReadFile(cfg.TLSCertPath)
		if err != nil {
			return nil, fmt.Errorf("read tls cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(certBytes) {
			return nil, fmt.Errorf("tls cert is not valid PEM")
		}
		tlsConfig.RootCAs = pool
	}

	return &RESTGateway{
		baseURL:  cfg.RESTAddress,
		macaroon: hex.EncodeToString(macBytes),
		client: &http.Client{
			Timeout:   time.Duration(cfg.Timeout) * time.Millisecond,
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		},
		logger: log.WithFields(map[string]interface{}{"component": "lnd-rest"}),
	}, nil
}

// lnd's REST proxy encodes 64-bit integers as JSON strings.
type restChannel struct {
	RemotePubkey  string `json:"remote_pubkey"`
	Capacity      string `json:"capacity"`
	LocalBalance  string `json:"local_balance"`
	RemoteBalance string `json:"remote_balance"`
	Active        bool   `json:"active"`
}

func (g *RESTGateway) ListChannels(ctx context.Context) ([]Channel, error) {
	var resp struct {
		Channels []restChannel `json:"channels"`
	}
	if err := g.get(ctx, "/v1/channels", &resp); err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}

	channels := make([]Channel, 0, len(resp.Channels))
	for _, rc := range resp.Channels {
		channels = append(channels, Channel{
			RemotePubkey:  rc.RemotePubkey,
			Capacity:      parseSats(rc.Capacity),
			LocalBalance:  parseSats(rc.LocalBalance),
			RemoteBalance: parseSats(rc.RemoteBalance),
			Active:        rc.Active,
		})
	}

	g.logger.Debug("channels fetched", map[string]interface{}{
		"count": len(channels),
	})

	return channels, nil
}

func (g *RESTGateway) GetPeerAlias(ctx context.Context, pubkey string) (string, error) {
	var resp struct {
		Node struct {
			Alias string `json:"alias"`
		} `json:"node"`
	}
	path := "/v1/graph/node/" + url.PathEscape(pubkey)
	if err := g.get(ctx, path, &resp); err != nil {
		return "", fmt.Errorf("get node info: %w", err)
	}
	return resp.Node.Alias, nil
}

func (g *RESTGateway) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Grpc-Metadata-macaroon", g.macaroon)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func parseSats(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
