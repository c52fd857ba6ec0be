package zakupki

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"tenderbot/internal/components/assert"
	"tenderbot/internal/components/telemetry"
	"tenderbot/lib/restyutil"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const report_client_fetch = "client.fetch"

// ErrUnexpectedStatus is returned when the registry answers with an error
// status (>= 400).
var ErrUnexpectedStatus = errors.New("unexpected status")

var (
	defaultAcceptHeaders = []string{
		"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	}
	defaultLanguageHeaders = []string{
		"ru-RU,ru;q=0.9",
		"ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7",
		"ru,en;q=0.9",
	}
)

// ClientOptions configure a Client. UserAgent produces the user agent of every
// request and defaults to a random real browser one. Each request picks its
// accept and accept-language values from AcceptHeaders and LanguageHeaders
// using Rand. When Dump is set every response is written to it.
type ClientOptions struct {
	Timeout         time.Duration
	UserAgent       func() string
	AcceptHeaders   []string
	LanguageHeaders []string
	Rand            *rand.Rand
	Dump            restyutil.Output
}

// Client fetches registry pages with a randomized browser header set.
type Client struct {
	http      *resty.Client
	userAgent func() string
	accept    []string
	language  []string
	tel       telemetry.API

	randLock sync.Mutex
	rand     *rand.Rand
}

func NewClient(opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(tel)

	if opts.UserAgent == nil {
		opts.UserAgent = browser.Random
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if len(opts.AcceptHeaders) == 0 {
		opts.AcceptHeaders = defaultAcceptHeaders
	}
	if len(opts.LanguageHeaders) == 0 {
		opts.LanguageHeaders = defaultLanguageHeaders
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	httpClient := resty.New()
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetTimeout(opts.Timeout)
	telemetry.InstrumentResty(httpClient, tel)
	restyutil.DumpTraffic(httpClient, opts.Dump)

	return &Client{
		http:      httpClient,
		userAgent: opts.UserAgent,
		accept:    opts.AcceptHeaders,
		language:  opts.LanguageHeaders,
		tel:       tel,
		rand:      opts.Rand,
	}
}

func (c *Client) pick(values []string) string {
	c.randLock.Lock()
	defer c.randLock.Unlock()
	return values[c.rand.Intn(len(values))]
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"user-agent":      c.userAgent(),
		"accept":          c.pick(c.accept),
		"accept-language": c.pick(c.language),
	}
}

// Fetch performs a GET request and returns the body of the page.
func (c *Client) Fetch(ctx context.Context, link string) (string, error) {
	ctx, span := tracer.Start(ctx, "client.Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	res, err := c.http.R().
		SetContext(ctx).
		SetHeaders(c.headers()).
		Get(link)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch, err, link)
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", fmt.Errorf("fetch %s: %w", link, err)
	}
	if res.IsError() {
		err = fmt.Errorf("fetch %s: %w: %s", link, ErrUnexpectedStatus, res.Status())
		c.tel.ReportBroken(report_client_fetch, err, link)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return "", err
	}

	return res.String(), nil
}
