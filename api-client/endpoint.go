package apiclient

import (
	"strings"
)

// Path templates relative to the base URL. Placeholders are substituted
// verbatim: hex addresses, decimal heights and ISO dates need no escaping.
const (
	balancesPath          = "{chain_id}/address/{address}/balances_v2/"
	portfolioPath         = "{chain_id}/address/{address}/portfolio_v2/"
	transfersPath         = "{chain_id}/address/{address}/transfers_v2/"
	tokenHoldersPath      = "{chain_id}/tokens/{address}/token_holders/"
	tokenHolderChangePath = "{chain_id}/tokens/{address}/token_holders_changes/"
	transactionsPath      = "{chain_id}/address/{address}/transactions_v2/"
	transactionPath       = "{chain_id}/transaction_v2/{tx_hash}/"
	blockPath             = "{chain_id}/block_v2/{block_height}/"
	blockHeightsPath      = "{chain_id}/block_v2/{start_date}/{end_date}/"
	eventsByContractPath  = "{chain_id}/events/address/{address}/"
	eventsByTopicPath     = "{chain_id}/events/topics/{topic}/"
	contractMetadataPath  = "{chain_id}/tokens/tokenlists/all/"
	chainsPath            = "chains/"
	chainStatusesPath     = "chains/status/"
)

const (
	keyParam        = "key"
	pageSizeParam   = "page-size"
	pageNumberParam = "page-number"
)

// QueryParam is one key=value pair of an endpoint's query string.
type QueryParam struct {
	Key   string
	Value string
}

// Endpoint describes one request: the absolute path and its ordered query.
type Endpoint struct {
	Path  string
	Query []QueryParam
}

// URL renders the endpoint exactly as it goes on the wire.
func (e *Endpoint) URL() string {
	return e.render(false)
}

// Redacted renders the endpoint with the credential masked, for logs and errors.
func (e *Endpoint) Redacted() string {
	return e.render(true)
}

func (e *Endpoint) render(redact bool) string {
	var b strings.Builder
	b.WriteString(e.Path)
	for i, q := range e.Query {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(q.Key)
		b.WriteByte('=')
		if redact && q.Key == keyParam {
			b.WriteString("***")
			continue
		}
		b.WriteString(q.Value)
	}
	return b.String()
}

// pathVars maps template placeholder names (without braces) to values.
type pathVars map[string]string

func expandPath(template string, vars pathVars) string {
	if len(vars) == 0 {
		return template
	}
	pairs := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// buildEndpoint composes base URL, expanded template, resource params, the
// credential and finally page-size then page-number when present. Every call
// allocates a new Endpoint.
func buildEndpoint(baseURL, template string, vars pathVars, params []QueryParam, apiKey string, page Pagination) *Endpoint {
	query := make([]QueryParam, 0, len(params)+3)
	query = append(query, params...)
	query = append(query, QueryParam{Key: keyParam, Value: apiKey})
	query = append(query, page.params()...)

	return &Endpoint{
		Path:  strings.TrimRight(baseURL, "/") + "/" + expandPath(template, vars),
		Query: query,
	}
}
