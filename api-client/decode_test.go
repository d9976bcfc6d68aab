package apiclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return body
}

func TestDecode_MinimalBalances(t *testing.T) {
	body := []byte(`{"data":{"address":"0xabc","items":[]},"error":false,"has_more":false}`)

	env, err := decode[Balances](balancesVariant, body)
	require.NoError(t, err)
	require.NotNil(t, env.Data)
	require.Equal(t, "0xabc", env.Data.Address)
	require.Empty(t, env.Data.Items)
	require.False(t, env.Error.Error)
	require.Nil(t, env.Error.ErrorMessage)
	require.Nil(t, env.Error.ErrorCode)
	require.False(t, env.Pagination.HasMore)
	require.Nil(t, env.Pagination.PageNumber)
	require.NoError(t, env.Err())
}

func TestDecode_Fixtures(t *testing.T) {
	tests := []struct {
		file  string
		check func(t *testing.T, body []byte)
	}{
		{
			file: "balances.json",
			check: func(t *testing.T, body []byte) {
				env, err := decode[Balances](balancesVariant, body)
				require.NoError(t, err)
				require.Equal(t, testAddress, env.Data.Address)
				require.Len(t, env.Data.Items, 2)

				klay := env.Data.Items[0]
				require.Equal(t, "cryptocurrency", klay.BalanceType)
				require.True(t, klay.Balance.Equal(decimal.RequireFromString("1500000000000000000")))
				require.True(t, klay.Quote.Valid)
				require.True(t, klay.Quote.Decimal.Equal(decimal.RequireFromString("0.78")))

				dust := env.Data.Items[1]
				require.Equal(t, "dust", dust.BalanceType)
				require.False(t, dust.Quote.Valid)
				require.False(t, dust.Balance24h.Valid)
				require.False(t, env.Pagination.HasMore)
			},
		},
		{
			file: "historical_portfolio.json",
			check: func(t *testing.T, body []byte) {
				env, err := decode[HistoricalPortfolio](portfolioVariant, body)
				require.NoError(t, err)
				require.Len(t, env.Data.Items, 1)
				require.Len(t, env.Data.Items[0].Holdings, 1)
				require.True(t, env.Data.Items[0].Holdings[0].Close.Quote.Decimal.Equal(decimal.RequireFromString("0.78")))
				require.True(t, env.Pagination.HasMore)
				require.Equal(t, 0, *env.Pagination.PageNumber)
				require.Equal(t, 1, *env.Pagination.PageSize)
				require.Nil(t, env.Pagination.TotalCount)
			},
		},
		{
			file: "token_transfers.json",
			check: func(t *testing.T, body []byte) {
				env, err := decode[TokenTransfers](transfersVariant, body)
				require.NoError(t, err)
				require.Len(t, env.Data.Items, 1)
				tx := env.Data.Items[0]
				require.Equal(t, int64(91321199), tx.BlockHeight)
				require.Len(t, tx.Transfers, 1)
				require.Equal(t, "OUT", tx.Transfers[0].TransferType)
				require.Equal(t, "Burn", *tx.Transfers[0].ToAddressLabel)
				require.False(t, tx.Transfers[0].Balance.Valid)
			},
		},
		{
			file: "token_holders.json",
			check: func(t *testing.T, body []byte) {
				env, err := decode[TokenHolders](tokenHoldersVariant, body)
				require.NoError(t, err)
				require.Len(t, env.Data.Items, 1)
				require.Equal(t, testAddress, env.Data.Items[0].Address)
				require.True(t, env.Pagination.HasMore)
				require.Equal(t, 2, *env.Pagination.TotalCount)
			},
		},
		{
			file: "token_holder_changes.json",
			check: func(t *testing.T, body []byte) {
				env, err := decode[TokenHolderChanges](tokenHolderChangesVariant, body)
				require.NoError(t, err)
				require.Len(t, env.Data.Items, 1)
				require.True(t, env.Data.Items[0].Diff.Equal(decimal.RequireFromString("25000000000000000000")))
			},
		},
		{
			file: "transactions.json",
			check: func(t *testing.T, body []byte) {
				env, err := decode[Transactions](transactionsVariant, body)
				require.NoError(t, err)
				require.Len(t, env.Data.Items, 1)
				events := env.Data.Items[0].LogEvents
				require.Len(t, events, 1)
				require.Equal(t, "Transfer", events[0].Decoded.Name)
				require.Len(t, events[0].Decoded.Params, 2)
				require.Equal(t, "uint256[]", events[0].Decoded.Params[1].Type)
			},
		},
		{
			file: "transaction.json",
			check: func(t *testing.T, body []byte) {
				env, err := decode[Transaction](transactionVariant, body)
				require.NoError(t, err)
				require.Len(t, env.Data.Items, 1)
				require.Nil(t, env.Data.Items[0].ToAddress)
				require.Empty(t, env.Data.Items[0].LogEvents)
			},
		},
		{
			file: "block.json",
			check: func(t *testing.T, body []byte) {
				env, err := decode[Blocks](blockVariant, body)
				require.NoError(t, err)
				require.Equal(t, int64(91321199), env.Data.Items[0].Height)
			},
		},
		{
			file: "block_heights.json",
			check: func(t *testing.T, body []byte) {
				env, err := decode[Blocks](blockHeightsVariant, body)
				require.NoError(t, err)
				require.Len(t, env.Data.Items, 2)
				require.True(t, env.Pagination.HasMore)
				require.Equal(t, 0, *env.Pagination.PageNumber)
			},
		},
		{
			file: "log_events.json",
			check: func(t *testing.T, body []byte) {
				for _, v := range []variant{logEventsByContractVariant, logEventsByTopicVariant} {
					env, err := decode[LogEvents](v, body)
					require.NoError(t, err, v.Name)
					require.Len(t, env.Data.Items, 1)
					require.Nil(t, env.Data.Items[0].SenderName)
					require.Equal(t, "ReserveDataUpdated", env.Data.Items[0].Decoded.Name)
				}
			},
		},
		{
			file: "contract_metadata.json",
			check: func(t *testing.T, body []byte) {
				env, err := decode[ContractMetadataList](contractMetadataVariant, body)
				require.NoError(t, err)
				require.Len(t, env.Data.Items, 2)
				require.Len(t, env.Data.Items[0], 2)
				require.Len(t, env.Data.Items[1], 1)
				require.Equal(t, "USDC", env.Data.Items[0][1].ContractTickerSymbol)
				require.Equal(t, 3, *env.Pagination.TotalCount)
			},
		},
		{
			file: "chains.json",
			check: func(t *testing.T, body []byte) {
				env, err := decode[ChainList](chainsVariant, body)
				require.NoError(t, err)
				require.Len(t, env.Data.Items, 2)
				require.Equal(t, "8217", env.Data.Items[1].ChainID)
				require.Nil(t, env.Data.Items[1].DBSchemaName)
			},
		},
		{
			file: "chain_statuses.json",
			check: func(t *testing.T, body []byte) {
				env, err := decode[ChainStatusList](chainStatusesVariant, body)
				require.NoError(t, err)
				require.Equal(t, int64(14880000), *env.Data.Items[0].SyncedBlockHeight)
				require.Nil(t, env.Data.Items[1].SyncedBlockHeight)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			tt.check(t, fixture(t, tt.file))
		})
	}
}

func TestDecode_ErrorOverlayWithoutData(t *testing.T) {
	body := []byte(`{"data":null,"error":true,"error_message":"Invalid API key","error_code":401}`)

	env, err := decode[Balances](balancesVariant, body)
	require.NoError(t, err)
	require.Nil(t, env.Data)
	require.True(t, env.Error.Error)
	require.Equal(t, "Invalid API key", *env.Error.ErrorMessage)
	require.Equal(t, 401, *env.Error.ErrorCode)

	var apiErr *APIError
	require.True(t, errors.As(env.Err(), &apiErr))
	require.Equal(t, 401, apiErr.Code)
	require.Equal(t, "Invalid API key", apiErr.Message)
}

func TestDecode_ErrorOverlaySkipsRequiredFields(t *testing.T) {
	body := []byte(`{"data":{"items":null},"error":true,"error_message":"Malformed address provided: 0xzz","error_code":400}`)

	env, err := decode[Balances](balancesVariant, body)
	require.NoError(t, err)
	require.NotNil(t, env.Data)
	require.Empty(t, env.Data.Items)
	require.Error(t, env.Err())
}

func TestDecode_ErrorOverlayWithMismatchedData(t *testing.T) {
	body := []byte(`{"data":{"items":"x"},"error":true,"error_message":"Internal error","error_code":500}`)

	env, err := decode[Balances](balancesVariant, body)
	require.NoError(t, err)
	require.Nil(t, env.Data)
	require.Equal(t, "Internal error", *env.Error.ErrorMessage)
	require.Equal(t, 500, *env.Error.ErrorCode)
}

func TestDecode_TrailingWhitespace(t *testing.T) {
	env, err := decode[Balances](balancesVariant, []byte("{\"data\":{\"address\":\"0xabc\",\"items\":[]},\"error\":false}\n\t "))
	require.NoError(t, err)
	require.Equal(t, "0xabc", env.Data.Address)
}

func TestDecode_ErrorCodeAsString(t *testing.T) {
	body := []byte(`{"error":true,"error_message":"rate limited","error_code":"429"}`)

	env, err := decode[ChainList](chainsVariant, body)
	require.NoError(t, err)
	require.Equal(t, 429, *env.Error.ErrorCode)
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "malformed JSON", body: `{"data":`, field: ""},
		{name: "trailing data", body: `{"data":{"address":"0xabc","items":[]},"error":false} this is not json`, field: ""},
		{name: "second object", body: `{"data":{"address":"0xabc","items":[]},"error":false}{}`, field: ""},
		{name: "not an object", body: `[1,2,3]`, field: ""},
		{name: "null body", body: `null`, field: ""},
		{name: "missing error flag", body: `{"data":{"address":"0xabc","items":[]}}`, field: "error"},
		{name: "error flag not bool", body: `{"data":{"address":"0xabc","items":[]},"error":"no"}`, field: "error"},
		{name: "missing data on success", body: `{"error":false}`, field: "data"},
		{name: "data not an object", body: `{"data":[],"error":false}`, field: "data"},
		{name: "missing required address", body: `{"data":{"items":[]},"error":false}`, field: "data.address"},
		{name: "null required items", body: `{"data":{"address":"0xabc","items":null},"error":false}`, field: "data.items"},
		{name: "wrong item type", body: `{"data":{"address":"0xabc","items":[{"contract_decimals":"eighteen"}]},"error":false}`, field: "data.items.contract_decimals"},
		{name: "bad page number", body: `{"data":{"address":"0xabc","items":[]},"error":false,"page_number":"first"}`, field: "page_number"},
		{name: "has_more not bool", body: `{"data":{"address":"0xabc","items":[]},"error":false,"has_more":1}`, field: "has_more"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := decode[Balances](balancesVariant, []byte(tt.body))
			require.Nil(t, env)

			var derr *DecodeError
			require.True(t, errors.As(err, &derr), "got %v", err)
			require.Equal(t, "balances", derr.Variant)
			require.Equal(t, tt.field, derr.Field)
		})
	}
}

func TestDecode_PaginationPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		hasMore    bool
		pageNumber int
		pageSize   int
	}{
		{
			name:       "top level",
			body:       `{"data":{"items":[]},"error":false,"has_more":true,"page_number":2,"page_size":50}`,
			hasMore:    true,
			pageNumber: 2,
			pageSize:   50,
		},
		{
			name:       "inside data",
			body:       `{"data":{"items":[],"has_more":true,"page_number":"4","page_size":"10"},"error":false}`,
			hasMore:    true,
			pageNumber: 4,
			pageSize:   10,
		},
		{
			name:       "nested pagination object",
			body:       `{"data":{"items":[],"pagination":{"has_more":false,"page_number":1,"page_size":100}},"error":false}`,
			pageNumber: 1,
			pageSize:   100,
		},
		{
			name:       "top level wins over nested",
			body:       `{"data":{"items":[],"pagination":{"has_more":false,"page_number":9,"page_size":9}},"error":false,"has_more":true,"page_number":3}`,
			hasMore:    true,
			pageNumber: 3,
			pageSize:   9,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := decode[TokenHolders](tokenHoldersVariant, []byte(tt.body))
			require.NoError(t, err)
			require.Equal(t, tt.hasMore, env.Pagination.HasMore)
			require.Equal(t, tt.pageNumber, *env.Pagination.PageNumber)
			require.Equal(t, tt.pageSize, *env.Pagination.PageSize)
		})
	}
}

func TestVariantApply_Alias(t *testing.T) {
	data := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"type": "cryptocurrency"},
			map[string]interface{}{"type": "nft", "balance_type": "stablecoin"},
			map[string]interface{}{"balance": "1"},
		},
	}

	balancesVariant.apply(data)

	items := data["items"].([]interface{})
	require.Equal(t, map[string]interface{}{"balance_type": "cryptocurrency"}, items[0])
	require.Equal(t, map[string]interface{}{"balance_type": "stablecoin"}, items[1])
	require.Equal(t, map[string]interface{}{"balance": "1"}, items[2])
}

func TestVariantApply_ExcludesNestedParamValues(t *testing.T) {
	data := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{
				"log_events": []interface{}{
					map[string]interface{}{
						"decoded": map[string]interface{}{
							"params": []interface{}{
								map[string]interface{}{"name": "a", "value": "1"},
								map[string]interface{}{"name": "b", "value": []interface{}{"1", "2"}},
							},
						},
					},
					map[string]interface{}{"decoded": nil},
				},
			},
		},
	}

	transactionsVariant.apply(data)

	event := data["items"].([]interface{})[0].(map[string]interface{})["log_events"].([]interface{})[0].(map[string]interface{})
	params := event["decoded"].(map[string]interface{})["params"].([]interface{})
	for _, p := range params {
		require.NotContains(t, p, "value")
		require.Contains(t, p, "name")
	}
}

func TestWalkObjects_ArraysOfArrays(t *testing.T) {
	node := []interface{}{
		[]interface{}{
			map[string]interface{}{"k": 1},
			map[string]interface{}{"k": 2},
		},
		map[string]interface{}{"k": 3},
		"scalar",
	}

	var seen int
	walkObjects(node, nil, func(map[string]interface{}) { seen++ })
	require.Equal(t, 3, seen)
}
