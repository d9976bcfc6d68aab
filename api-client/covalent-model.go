package apiclient

import (
	"github.com/shopspring/decimal"
)

// Fields that only some API versions return are pointers or Null types; a
// missing field is never a decode error.

type Balances struct {
	Address       string         `json:"address"`
	UpdatedAt     string         `json:"updated_at"`
	NextUpdateAt  *string        `json:"next_update_at"`
	QuoteCurrency string         `json:"quote_currency"`
	ChainID       int            `json:"chain_id"`
	ChainName     *string        `json:"chain_name"`
	Items         []*BalanceItem `json:"items"`
}

type BalanceItem struct {
	ContractDecimals     int                 `json:"contract_decimals"`
	ContractName         string              `json:"contract_name"`
	ContractTickerSymbol string              `json:"contract_ticker_symbol"`
	ContractAddress      string              `json:"contract_address"`
	SupportsERC          []string            `json:"supports_erc"`
	LogoURL              string              `json:"logo_url"`
	LastTransferredAt    *string             `json:"last_transferred_at"`
	NativeToken          *bool               `json:"native_token"`
	BalanceType          string              `json:"balance_type"` // "type" on the wire
	Balance              decimal.Decimal     `json:"balance"`
	Balance24h           decimal.NullDecimal `json:"balance_24h"`
	QuoteRate            decimal.NullDecimal `json:"quote_rate"`
	QuoteRate24h         decimal.NullDecimal `json:"quote_rate_24h"`
	Quote                decimal.NullDecimal `json:"quote"`
	Quote24h             decimal.NullDecimal `json:"quote_24h"`
}

type HistoricalPortfolio struct {
	Address       string           `json:"address"`
	UpdatedAt     string           `json:"updated_at"`
	NextUpdateAt  *string          `json:"next_update_at"`
	QuoteCurrency string           `json:"quote_currency"`
	ChainID       int              `json:"chain_id"`
	Items         []*PortfolioItem `json:"items"`
}

type PortfolioItem struct {
	ContractDecimals     int        `json:"contract_decimals"`
	ContractName         string     `json:"contract_name"`
	ContractTickerSymbol string     `json:"contract_ticker_symbol"`
	ContractAddress      string     `json:"contract_address"`
	LogoURL              string     `json:"logo_url"`
	Holdings             []*Holding `json:"holdings"`
}

type Holding struct {
	Timestamp string              `json:"timestamp"`
	QuoteRate decimal.NullDecimal `json:"quote_rate"`
	Open      HoldingValue        `json:"open"`
	High      HoldingValue        `json:"high"`
	Low       HoldingValue        `json:"low"`
	Close     HoldingValue        `json:"close"`
}

type HoldingValue struct {
	Balance decimal.NullDecimal `json:"balance"`
	Quote   decimal.NullDecimal `json:"quote"`
}

// BaseTransaction holds the fields shared by every transaction shape.
type BaseTransaction struct {
	BlockSignedAt    string              `json:"block_signed_at"`
	BlockHeight      int64               `json:"block_height"`
	TxHash           string              `json:"tx_hash"`
	TxOffset         int                 `json:"tx_offset"`
	Successful       bool                `json:"successful"`
	FromAddress      string              `json:"from_address"`
	FromAddressLabel *string             `json:"from_address_label"`
	ToAddress        *string             `json:"to_address"`
	ToAddressLabel   *string             `json:"to_address_label"`
	Value            decimal.Decimal     `json:"value"`
	ValueQuote       decimal.NullDecimal `json:"value_quote"`
	GasOffered       int64               `json:"gas_offered"`
	GasSpent         int64               `json:"gas_spent"`
	GasPrice         decimal.Decimal     `json:"gas_price"`
	FeesPaid         decimal.NullDecimal `json:"fees_paid"`
	GasQuote         decimal.NullDecimal `json:"gas_quote"`
	GasQuoteRate     decimal.NullDecimal `json:"gas_quote_rate"`
}

type TransactionWithLogEvents struct {
	BaseTransaction
	LogEvents []*LogEvent `json:"log_events"`
}

type TransactionWithTransfers struct {
	BaseTransaction
	Transfers []*TokenTransfer `json:"transfers"`
}

type LogEvent struct {
	BlockSignedAt              string        `json:"block_signed_at"`
	BlockHeight                int64         `json:"block_height"`
	TxOffset                   int           `json:"tx_offset"`
	LogOffset                  int           `json:"log_offset"`
	TxHash                     string        `json:"tx_hash"`
	RawLogTopics               []string      `json:"raw_log_topics"`
	SenderContractDecimals     *int          `json:"sender_contract_decimals"`
	SenderName                 *string       `json:"sender_name"`
	SenderContractTickerSymbol *string       `json:"sender_contract_ticker_symbol"`
	SenderAddress              string        `json:"sender_address"`
	SenderAddressLabel         *string       `json:"sender_address_label"`
	SenderLogoURL              *string       `json:"sender_logo_url"`
	RawLogData                 *string       `json:"raw_log_data"`
	Decoded                    *DecodedEvent `json:"decoded"`
}

type DecodedEvent struct {
	Name      string          `json:"name"`
	Signature string          `json:"signature"`
	Params    []*DecodedParam `json:"params"`
}

// DecodedParam omits the parameter value: the API sends it as a scalar or a
// list depending on the ABI type, so it is dropped before decoding.
type DecodedParam struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed"`
	Decoded bool   `json:"decoded"`
}

type TokenTransfer struct {
	BlockSignedAt        string              `json:"block_signed_at"`
	TxHash               string              `json:"tx_hash"`
	FromAddress          string              `json:"from_address"`
	FromAddressLabel     *string             `json:"from_address_label"`
	ToAddress            string              `json:"to_address"`
	ToAddressLabel       *string             `json:"to_address_label"`
	ContractDecimals     int                 `json:"contract_decimals"`
	ContractName         string              `json:"contract_name"`
	ContractTickerSymbol string              `json:"contract_ticker_symbol"`
	ContractAddress      string              `json:"contract_address"`
	LogoURL              string              `json:"logo_url"`
	TransferType         string              `json:"transfer_type"`
	Delta                decimal.Decimal     `json:"delta"`
	Balance              decimal.NullDecimal `json:"balance"`
	QuoteRate            decimal.NullDecimal `json:"quote_rate"`
	DeltaQuote           decimal.NullDecimal `json:"delta_quote"`
	BalanceQuote         decimal.NullDecimal `json:"balance_quote"`
}

type TokenTransfers struct {
	Address       string                      `json:"address"`
	UpdatedAt     string                      `json:"updated_at"`
	NextUpdateAt  *string                     `json:"next_update_at"`
	QuoteCurrency string                      `json:"quote_currency"`
	ChainID       int                         `json:"chain_id"`
	Items         []*TransactionWithTransfers `json:"items"`
}

type TokenHolders struct {
	UpdatedAt string         `json:"updated_at"`
	Items     []*TokenHolder `json:"items"`
}

type TokenHolder struct {
	ContractDecimals     int             `json:"contract_decimals"`
	ContractName         string          `json:"contract_name"`
	ContractTickerSymbol string          `json:"contract_ticker_symbol"`
	ContractAddress      string          `json:"contract_address"`
	SupportsERC          []string        `json:"supports_erc"`
	LogoURL              string          `json:"logo_url"`
	Address              string          `json:"address"`
	Balance              decimal.Decimal `json:"balance"`
	TotalSupply          decimal.Decimal `json:"total_supply"`
	BlockHeight          int64           `json:"block_height"`
}

type TokenHolderChanges struct {
	UpdatedAt string               `json:"updated_at"`
	Items     []*TokenHolderChange `json:"items"`
}

type TokenHolderChange struct {
	TokenHolder     string          `json:"token_holder"`
	PrevBalance     decimal.Decimal `json:"prev_balance"`
	PrevBlockHeight int64           `json:"prev_block_height"`
	NextBalance     decimal.Decimal `json:"next_balance"`
	NextBlockHeight int64           `json:"next_block_height"`
	Diff            decimal.Decimal `json:"diff"`
}

type Transactions struct {
	Address       string                      `json:"address"`
	UpdatedAt     string                      `json:"updated_at"`
	NextUpdateAt  *string                     `json:"next_update_at"`
	QuoteCurrency string                      `json:"quote_currency"`
	ChainID       int                         `json:"chain_id"`
	Items         []*TransactionWithLogEvents `json:"items"`
}

type Transaction struct {
	UpdatedAt string                      `json:"updated_at"`
	Items     []*TransactionWithLogEvents `json:"items"`
}

type Blocks struct {
	UpdatedAt string   `json:"updated_at"`
	Items     []*Block `json:"items"`
}

type Block struct {
	SignedAt string `json:"signed_at"`
	Height   int64  `json:"height"`
}

type LogEvents struct {
	UpdatedAt string      `json:"updated_at"`
	Items     []*LogEvent `json:"items"`
}

// ContractMetadataList mirrors the live API, which nests the item list twice.
// This is an upstream quirk and is kept as-is rather than flattened.
type ContractMetadataList struct {
	UpdatedAt string                `json:"updated_at"`
	Items     [][]*ContractMetadata `json:"items"`
}

type ContractMetadata struct {
	ContractDecimals     int      `json:"contract_decimals"`
	ContractName         string   `json:"contract_name"`
	ContractTickerSymbol string   `json:"contract_ticker_symbol"`
	ContractAddress      string   `json:"contract_address"`
	SupportsERC          []string `json:"supports_erc"`
	LogoURL              string   `json:"logo_url"`
}

type ChainList struct {
	UpdatedAt string       `json:"updated_at"`
	Items     []*ChainInfo `json:"items"`
}

type ChainInfo struct {
	Name         string  `json:"name"`
	ChainID      string  `json:"chain_id"`
	IsTestnet    bool    `json:"is_testnet"`
	DBSchemaName *string `json:"db_schema_name"`
	Label        string  `json:"label"`
	LogoURL      string  `json:"logo_url"`
}

type ChainStatusList struct {
	UpdatedAt string         `json:"updated_at"`
	Items     []*ChainStatus `json:"items"`
}

type ChainStatus struct {
	Name                string  `json:"name"`
	ChainID             string  `json:"chain_id"`
	IsTestnet           bool    `json:"is_testnet"`
	LogoURL             string  `json:"logo_url"`
	SyncedBlockHeight   *int64  `json:"synced_block_height"`
	SyncedBlockSignedAt *string `json:"synced_blocked_signed_at"`
}
