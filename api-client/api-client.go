package apiclient

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"sifter/config"
)

const dateFormat = "2006-01-02"

type APIClienter interface {
	GetAddressBalances(ctx context.Context, req GetAddressBalancesReq) (*ResourceEnvelope[Balances], error)
	GetHistoricalPortfolio(ctx context.Context, req GetHistoricalPortfolioReq) (*ResourceEnvelope[HistoricalPortfolio], error)
	GetTokenTransfers(ctx context.Context, req GetTokenTransfersReq) (*ResourceEnvelope[TokenTransfers], error)
	GetTokenHolders(ctx context.Context, req GetTokenHoldersReq) (*ResourceEnvelope[TokenHolders], error)
	GetTokenHolderChanges(ctx context.Context, req GetTokenHolderChangesReq) (*ResourceEnvelope[TokenHolderChanges], error)
	GetTransactions(ctx context.Context, req GetTransactionsReq) (*ResourceEnvelope[Transactions], error)
	GetTransaction(ctx context.Context, req GetTransactionReq) (*ResourceEnvelope[Transaction], error)
	GetBlock(ctx context.Context, req GetBlockReq) (*ResourceEnvelope[Blocks], error)
	GetBlockHeights(ctx context.Context, req GetBlockHeightsReq) (*ResourceEnvelope[Blocks], error)
	GetLogEventsByContract(ctx context.Context, req GetLogEventsByContractReq) (*ResourceEnvelope[LogEvents], error)
	GetLogEventsByTopic(ctx context.Context, req GetLogEventsByTopicReq) (*ResourceEnvelope[LogEvents], error)
	GetAllContractMetadata(ctx context.Context, req GetContractMetadataReq) (*ResourceEnvelope[ContractMetadataList], error)
	GetAllChains(ctx context.Context, req GetChainsReq) (*ResourceEnvelope[ChainList], error)
	GetAllChainStatuses(ctx context.Context, req GetChainsReq) (*ResourceEnvelope[ChainStatusList], error)
	GetBlockByDate(ctx context.Context, req GetBlockByDateReq) (*int64, error)

	TokenHoldersPages(req GetTokenHoldersReq) *Pager[TokenHolders]
}

var _ APIClienter = (*Client)(nil)

// Client is the Covalent class-A facade. Its configuration is copied at
// construction and never mutated, so a Client is safe for concurrent use; the
// chain is chosen per request.
type Client struct {
	cfg      config.Config
	creds    CredentialSource
	logger   zerolog.Logger
	executor *requestExecutor
}

type Option func(*Client)

// WithTransport replaces the default HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.executor.transport = t
	}
}

// WithLogger sets the logger used for request and decode diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCredentialSource sets where the API key is looked up when cfg.ApiKey is
// empty. The default is the process environment.
func WithCredentialSource(src CredentialSource) Option {
	return func(c *Client) {
		c.creds = src
	}
}

// NewAPIClient builds a client from cfg. When cfg.ApiKey is empty the key is
// read once from the credential source under cfg.ApiKeyEnv (COVALENT_API_KEY
// by default); no other I/O happens here.
func NewAPIClient(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}

	c := &Client{
		cfg:      *cfg,
		creds:    EnvSource{},
		logger:   zerolog.Nop(),
		executor: &requestExecutor{},
	}
	c.cfg.Chains = append([]string(nil), cfg.Chains...)
	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.BaseURL == "" {
		c.cfg.BaseURL = config.DefaultBaseURL
	}
	if c.cfg.Timeout <= 0 {
		c.cfg.Timeout = 30 * time.Second
	}

	keyName := c.cfg.ApiKeyEnv
	if keyName == "" {
		keyName = EnvAPIKey
	}
	key, err := resolveCredential(c.cfg.ApiKey, c.creds, keyName)
	if err != nil {
		return nil, err
	}
	c.cfg.ApiKey = key

	if c.executor.transport == nil {
		c.executor.transport = NewHTTPTransport(c.cfg.Timeout, 0)
	}
	c.executor.logger = c.logger

	return c, nil
}

// WithChain returns a copy of c whose default chain is chain. c is unchanged.
func (c *Client) WithChain(chain Chain) *Client {
	cp := *c
	cp.cfg.ChainID = chain.ID()
	return &cp
}

// ChainID returns the default chain id used when a request leaves Chain empty.
func (c *Client) ChainID() string {
	return c.cfg.ChainID
}

func (c *Client) chainID(chain Chain) (string, error) {
	if id := chain.ID(); id != "" {
		return id, nil
	}
	if id := Chain(c.cfg.ChainID).ID(); id != "" {
		return id, nil
	}
	return "", errors.Wrap(ErrEmptyParameter, "chain")
}

func (c *Client) endpoint(template string, vars pathVars, params []QueryParam, page Pagination) *Endpoint {
	return buildEndpoint(c.cfg.BaseURL, template, vars, params, c.cfg.ApiKey, page)
}

// request is implemented by every request struct: it validates its
// parameters and builds the endpoint for the given page.
type request interface {
	endpoint(c *Client, page Pagination) (*Endpoint, error)
}

func fetch[T any](ctx context.Context, c *Client, v variant, r request, page Pagination) (*ResourceEnvelope[T], error) {
	ep, err := r.endpoint(c, page)
	if err != nil {
		return nil, err
	}

	resp, err := c.executor.execute(ctx, ep)
	if err != nil {
		return nil, err
	}

	env, err := decode[T](v, resp.Body)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("variant", v.Name).
			Int("status", resp.StatusCode).
			Msg("failure decoding response")
		return nil, err
	}
	if env.Error.Error {
		c.logger.Debug().
			Str("variant", v.Name).
			Int("status", resp.StatusCode).
			Err(env.Err()).
			Msg("API reported an error")
	}
	return env, nil
}

func pages[T any](c *Client, v variant, r request, start Pagination) *Pager[T] {
	return newPager[T](start, func(ctx context.Context, page Pagination) (*ResourceEnvelope[T], error) {
		return fetch[T](ctx, c, v, r, page)
	})
}

type GetAddressBalancesReq struct {
	Chain   Chain
	Address string
	Pagination
}

func (r GetAddressBalancesReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	chainID, err := c.chainID(r.Chain)
	if err != nil {
		return nil, err
	}
	if err := requireParams("address", r.Address); err != nil {
		return nil, err
	}
	return c.endpoint(balancesPath, pathVars{"chain_id": chainID, "address": r.Address}, nil, page), nil
}

// GetAddressBalances returns the token balances held by an address.
func (c *Client) GetAddressBalances(ctx context.Context, req GetAddressBalancesReq) (*ResourceEnvelope[Balances], error) {
	return fetch[Balances](ctx, c, balancesVariant, req, req.Pagination)
}

type GetHistoricalPortfolioReq struct {
	Chain   Chain
	Address string
	Pagination
}

func (r GetHistoricalPortfolioReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	chainID, err := c.chainID(r.Chain)
	if err != nil {
		return nil, err
	}
	if err := requireParams("address", r.Address); err != nil {
		return nil, err
	}
	return c.endpoint(portfolioPath, pathVars{"chain_id": chainID, "address": r.Address}, nil, page), nil
}

// GetHistoricalPortfolio returns daily portfolio values for an address.
func (c *Client) GetHistoricalPortfolio(ctx context.Context, req GetHistoricalPortfolioReq) (*ResourceEnvelope[HistoricalPortfolio], error) {
	return fetch[HistoricalPortfolio](ctx, c, portfolioVariant, req, req.Pagination)
}

func (c *Client) HistoricalPortfolioPages(req GetHistoricalPortfolioReq) *Pager[HistoricalPortfolio] {
	return pages[HistoricalPortfolio](c, portfolioVariant, req, req.Pagination)
}

type GetTokenTransfersReq struct {
	Chain           Chain
	Address         string
	ContractAddress string
	Pagination
}

func (r GetTokenTransfersReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	chainID, err := c.chainID(r.Chain)
	if err != nil {
		return nil, err
	}
	if err := requireParams("address", r.Address, "contract address", r.ContractAddress); err != nil {
		return nil, err
	}
	return c.endpoint(transfersPath,
		pathVars{"chain_id": chainID, "address": r.Address},
		[]QueryParam{{Key: "contract-address", Value: r.ContractAddress}},
		page), nil
}

// GetTokenTransfers returns ERC20 transfers of one token contract in and out
// of an address.
func (c *Client) GetTokenTransfers(ctx context.Context, req GetTokenTransfersReq) (*ResourceEnvelope[TokenTransfers], error) {
	return fetch[TokenTransfers](ctx, c, transfersVariant, req, req.Pagination)
}

func (c *Client) TokenTransfersPages(req GetTokenTransfersReq) *Pager[TokenTransfers] {
	return pages[TokenTransfers](c, transfersVariant, req, req.Pagination)
}

// GetTokenHoldersReq lists holders of a token. BlockHeight is optional; when
// empty the latest block is used.
type GetTokenHoldersReq struct {
	Chain        Chain
	TokenAddress string
	BlockHeight  string
	Pagination
}

func (r GetTokenHoldersReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	chainID, err := c.chainID(r.Chain)
	if err != nil {
		return nil, err
	}
	if err := requireParams("token address", r.TokenAddress); err != nil {
		return nil, err
	}
	var params []QueryParam
	if r.BlockHeight != "" {
		params = append(params, QueryParam{Key: "block-height", Value: r.BlockHeight})
	}
	return c.endpoint(tokenHoldersPath, pathVars{"chain_id": chainID, "address": r.TokenAddress}, params, page), nil
}

// GetTokenHolders returns the holders of a token at a block height.
func (c *Client) GetTokenHolders(ctx context.Context, req GetTokenHoldersReq) (*ResourceEnvelope[TokenHolders], error) {
	return fetch[TokenHolders](ctx, c, tokenHoldersVariant, req, req.Pagination)
}

func (c *Client) TokenHoldersPages(req GetTokenHoldersReq) *Pager[TokenHolders] {
	return pages[TokenHolders](c, tokenHoldersVariant, req, req.Pagination)
}

type GetTokenHolderChangesReq struct {
	Chain         Chain
	TokenAddress  string
	StartingBlock string
	EndingBlock   string
	Pagination
}

func (r GetTokenHolderChangesReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	chainID, err := c.chainID(r.Chain)
	if err != nil {
		return nil, err
	}
	if err := requireParams("token address", r.TokenAddress, "starting block", r.StartingBlock, "ending block", r.EndingBlock); err != nil {
		return nil, err
	}
	return c.endpoint(tokenHolderChangePath,
		pathVars{"chain_id": chainID, "address": r.TokenAddress},
		[]QueryParam{
			{Key: "starting-block", Value: r.StartingBlock},
			{Key: "ending-block", Value: r.EndingBlock},
		},
		page), nil
}

// GetTokenHolderChanges returns holders whose balance changed between two
// block heights.
func (c *Client) GetTokenHolderChanges(ctx context.Context, req GetTokenHolderChangesReq) (*ResourceEnvelope[TokenHolderChanges], error) {
	return fetch[TokenHolderChanges](ctx, c, tokenHolderChangesVariant, req, req.Pagination)
}

func (c *Client) TokenHolderChangesPages(req GetTokenHolderChangesReq) *Pager[TokenHolderChanges] {
	return pages[TokenHolderChanges](c, tokenHolderChangesVariant, req, req.Pagination)
}

type GetTransactionsReq struct {
	Chain   Chain
	Address string
	Pagination
}

func (r GetTransactionsReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	chainID, err := c.chainID(r.Chain)
	if err != nil {
		return nil, err
	}
	if err := requireParams("address", r.Address); err != nil {
		return nil, err
	}
	return c.endpoint(transactionsPath, pathVars{"chain_id": chainID, "address": r.Address}, nil, page), nil
}

// GetTransactions returns the transactions of an address with their log events.
func (c *Client) GetTransactions(ctx context.Context, req GetTransactionsReq) (*ResourceEnvelope[Transactions], error) {
	return fetch[Transactions](ctx, c, transactionsVariant, req, req.Pagination)
}

func (c *Client) TransactionsPages(req GetTransactionsReq) *Pager[Transactions] {
	return pages[Transactions](c, transactionsVariant, req, req.Pagination)
}

type GetTransactionReq struct {
	Chain  Chain
	TxHash string
	Pagination
}

func (r GetTransactionReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	chainID, err := c.chainID(r.Chain)
	if err != nil {
		return nil, err
	}
	if err := requireParams("transaction hash", r.TxHash); err != nil {
		return nil, err
	}
	return c.endpoint(transactionPath, pathVars{"chain_id": chainID, "tx_hash": r.TxHash}, nil, page), nil
}

// GetTransaction returns a single transaction by hash.
func (c *Client) GetTransaction(ctx context.Context, req GetTransactionReq) (*ResourceEnvelope[Transaction], error) {
	return fetch[Transaction](ctx, c, transactionVariant, req, req.Pagination)
}

type GetBlockReq struct {
	Chain       Chain
	BlockHeight string
	Pagination
}

func (r GetBlockReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	chainID, err := c.chainID(r.Chain)
	if err != nil {
		return nil, err
	}
	if err := requireParams("block height", r.BlockHeight); err != nil {
		return nil, err
	}
	return c.endpoint(blockPath, pathVars{"chain_id": chainID, "block_height": r.BlockHeight}, nil, page), nil
}

// GetBlock returns a single block. BlockHeight also accepts "latest".
func (c *Client) GetBlock(ctx context.Context, req GetBlockReq) (*ResourceEnvelope[Blocks], error) {
	return fetch[Blocks](ctx, c, blockVariant, req, req.Pagination)
}

// GetBlockHeightsReq takes dates in YYYY-MM-DD form.
type GetBlockHeightsReq struct {
	Chain     Chain
	StartDate string
	EndDate   string
	Pagination
}

func (r GetBlockHeightsReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	chainID, err := c.chainID(r.Chain)
	if err != nil {
		return nil, err
	}
	if err := requireParams("start date", r.StartDate, "end date", r.EndDate); err != nil {
		return nil, err
	}
	return c.endpoint(blockHeightsPath,
		pathVars{"chain_id": chainID, "start_date": r.StartDate, "end_date": r.EndDate},
		nil, page), nil
}

// GetBlockHeights returns the blocks signed between two dates.
func (c *Client) GetBlockHeights(ctx context.Context, req GetBlockHeightsReq) (*ResourceEnvelope[Blocks], error) {
	return fetch[Blocks](ctx, c, blockHeightsVariant, req, req.Pagination)
}

func (c *Client) BlockHeightsPages(req GetBlockHeightsReq) *Pager[Blocks] {
	return pages[Blocks](c, blockHeightsVariant, req, req.Pagination)
}

type GetBlockByDateReq struct {
	Chain Chain
	Date  time.Time
}

// GetBlockByDate returns the height of the first block signed on req.Date, or
// nil when the API knows no block for that day. An error overlay is returned
// as *APIError.
func (c *Client) GetBlockByDate(ctx context.Context, req GetBlockByDateReq) (*int64, error) {
	if req.Date.IsZero() {
		return nil, errors.Wrap(ErrEmptyParameter, "date")
	}
	day := req.Date.UTC()
	env, err := c.GetBlockHeights(ctx, GetBlockHeightsReq{
		Chain:      req.Chain,
		StartDate:  day.Format(dateFormat),
		EndDate:    day.AddDate(0, 0, 1).Format(dateFormat),
		Pagination: Pagination{PageSize: "1"},
	})
	if err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}
	if len(env.Data.Items) == 0 || env.Data.Items[0] == nil {
		return nil, nil
	}
	height := env.Data.Items[0].Height
	return &height, nil
}

type GetLogEventsByContractReq struct {
	Chain           Chain
	ContractAddress string
	StartingBlock   string
	EndingBlock     string
	Pagination
}

func (r GetLogEventsByContractReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	chainID, err := c.chainID(r.Chain)
	if err != nil {
		return nil, err
	}
	if err := requireParams("contract address", r.ContractAddress, "starting block", r.StartingBlock, "ending block", r.EndingBlock); err != nil {
		return nil, err
	}
	return c.endpoint(eventsByContractPath,
		pathVars{"chain_id": chainID, "address": r.ContractAddress},
		[]QueryParam{
			{Key: "starting-block", Value: r.StartingBlock},
			{Key: "ending-block", Value: r.EndingBlock},
		},
		page), nil
}

// GetLogEventsByContract returns the log events emitted by a contract between
// two block heights.
func (c *Client) GetLogEventsByContract(ctx context.Context, req GetLogEventsByContractReq) (*ResourceEnvelope[LogEvents], error) {
	return fetch[LogEvents](ctx, c, logEventsByContractVariant, req, req.Pagination)
}

func (c *Client) LogEventsByContractPages(req GetLogEventsByContractReq) *Pager[LogEvents] {
	return pages[LogEvents](c, logEventsByContractVariant, req, req.Pagination)
}

// GetLogEventsByTopicReq selects events by topic hash. Several topics may be
// given comma-separated. SenderAddress is optional.
type GetLogEventsByTopicReq struct {
	Chain         Chain
	Topic         string
	SenderAddress string
	StartingBlock string
	EndingBlock   string
	Pagination
}

func (r GetLogEventsByTopicReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	chainID, err := c.chainID(r.Chain)
	if err != nil {
		return nil, err
	}
	if err := requireParams("topic", r.Topic, "starting block", r.StartingBlock, "ending block", r.EndingBlock); err != nil {
		return nil, err
	}
	params := []QueryParam{
		{Key: "starting-block", Value: r.StartingBlock},
		{Key: "ending-block", Value: r.EndingBlock},
	}
	if r.SenderAddress != "" {
		params = append(params, QueryParam{Key: "sender-address", Value: r.SenderAddress})
	}
	return c.endpoint(eventsByTopicPath, pathVars{"chain_id": chainID, "topic": r.Topic}, params, page), nil
}

// GetLogEventsByTopic returns log events matching topic hashes between two
// block heights.
func (c *Client) GetLogEventsByTopic(ctx context.Context, req GetLogEventsByTopicReq) (*ResourceEnvelope[LogEvents], error) {
	return fetch[LogEvents](ctx, c, logEventsByTopicVariant, req, req.Pagination)
}

func (c *Client) LogEventsByTopicPages(req GetLogEventsByTopicReq) *Pager[LogEvents] {
	return pages[LogEvents](c, logEventsByTopicVariant, req, req.Pagination)
}

type GetContractMetadataReq struct {
	Chain Chain
	Pagination
}

func (r GetContractMetadataReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	chainID, err := c.chainID(r.Chain)
	if err != nil {
		return nil, err
	}
	return c.endpoint(contractMetadataPath, pathVars{"chain_id": chainID}, nil, page), nil
}

// GetAllContractMetadata returns the token list of a chain. The item list is
// nested twice, as the API sends it.
func (c *Client) GetAllContractMetadata(ctx context.Context, req GetContractMetadataReq) (*ResourceEnvelope[ContractMetadataList], error) {
	return fetch[ContractMetadataList](ctx, c, contractMetadataVariant, req, req.Pagination)
}

func (c *Client) ContractMetadataPages(req GetContractMetadataReq) *Pager[ContractMetadataList] {
	return pages[ContractMetadataList](c, contractMetadataVariant, req, req.Pagination)
}

// GetChainsReq selects the quote currency of the chain listings; when empty
// the configured quote currency is used.
type GetChainsReq struct {
	QuoteCurrency string
	Pagination
}

func (r GetChainsReq) quoteParams(c *Client) ([]QueryParam, error) {
	quote := r.QuoteCurrency
	if quote == "" {
		quote = c.cfg.QuoteCurrency
	}
	if err := requireParams("quote currency", quote); err != nil {
		return nil, err
	}
	return []QueryParam{{Key: "quote-currency", Value: quote}}, nil
}

type chainsReq struct{ GetChainsReq }

func (r chainsReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	params, err := r.quoteParams(c)
	if err != nil {
		return nil, err
	}
	return c.endpoint(chainsPath, nil, params, page), nil
}

type chainStatusesReq struct{ GetChainsReq }

func (r chainStatusesReq) endpoint(c *Client, page Pagination) (*Endpoint, error) {
	params, err := r.quoteParams(c)
	if err != nil {
		return nil, err
	}
	return c.endpoint(chainStatusesPath, nil, params, page), nil
}

// GetAllChains lists the chains the API supports.
func (c *Client) GetAllChains(ctx context.Context, req GetChainsReq) (*ResourceEnvelope[ChainList], error) {
	return fetch[ChainList](ctx, c, chainsVariant, chainsReq{req}, req.Pagination)
}

// GetAllChainStatuses lists the sync status of every chain.
func (c *Client) GetAllChainStatuses(ctx context.Context, req GetChainsReq) (*ResourceEnvelope[ChainStatusList], error) {
	return fetch[ChainStatusList](ctx, c, chainStatusesVariant, chainStatusesReq{req}, req.Pagination)
}
