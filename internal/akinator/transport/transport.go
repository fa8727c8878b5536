// Package transport sends form-encoded requests to the akinator service and
// hands back the raw response body.
package transport

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"strconv"
	"time"

	"akinator-client/internal/components/assert"
	"akinator-client/internal/components/telemetry"
	"akinator-client/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

const (
	report_client_post_form = "client.post-form"
)

const DefaultTimeout = 30 * time.Second

var defaultHeaders = map[string]string{
	"content-type":     "application/x-www-form-urlencoded",
	"user-agent":       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"x-requested-with": "XMLHttpRequest",
}

var tracer = otel.Tracer("akinator/transport")

// Fields is the flat set of values that will be form-url-encoded into the
// request body. Values should be strings, bools, ints or floats.
type Fields map[string]any

// Options are passed through verbatim from the caller.
type Options struct {
	// Headers are sent on every request, they take precedence over the default headers.
	Headers map[string]string
	// Timeout of a single exchange, zero means DefaultTimeout.
	Timeout time.Duration
	// Dump receives every HTTP exchange in full if it is not nil.
	Dump restyutil.InstrumentOutput
}

type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("transport", tel)

	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	httpClient.SetHeaders(defaultHeaders)
	httpClient.SetHeaders(opts.Headers)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient.SetTimeout(timeout)

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.InstrumentClient(httpClient, tracer, opts.Dump)

	return &Client{
		http: httpClient,
		tel:  tel,
	}, nil
}

// PostForm sends the fields as a form-encoded POST to the endpoint and
// returns the body as text. A non-2xx status is not an error, the body is
// still returned so that the caller can decide what it means.
func (c *Client) PostForm(ctx context.Context, endpoint string, fields Fields) (string, error) {
	assert.NotEmptyStr(endpoint)

	form, err := EncodeFields(fields)
	if err != nil {
		c.tel.ReportBroken(report_client_post_form, err, endpoint)
		return "", fmt.Errorf("akinator transport: %w", err)
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(endpoint)
	if err != nil {
		c.tel.ReportBroken(
			report_client_post_form,
			fmt.Errorf("fetch: %w", err),
			endpoint,
		)
		return "", fmt.Errorf("akinator transport: post %s: %w", endpoint, err)
	}
	if res.IsError() {
		c.tel.ReportWarning(
			report_client_post_form,
			fmt.Errorf("unexpected status: %s", res.Status()),
			endpoint,
		)
	}

	return res.String(), nil
}

// EncodeFields renders every field the way the service expects it on the wire.
func EncodeFields(fields Fields) (map[string]string, error) {
	form := make(map[string]string, len(fields))
	for key, value := range fields {
		switch v := value.(type) {
		case string:
			form[key] = v
		case bool:
			form[key] = strconv.FormatBool(v)
		case int:
			form[key] = strconv.Itoa(v)
		case int64:
			form[key] = strconv.FormatInt(v, 10)
		case float64:
			form[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case fmt.Stringer:
			form[key] = v.String()
		default:
			return nil, fmt.Errorf("unsupported value for field %q: %T", key, value)
		}
	}
	return form, nil
}
