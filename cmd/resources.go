package cmd

import (
	"context"

	"github.com/spf13/cobra"

	apiclient "sifter/api-client"
)

func resourceCommands() []*cobra.Command {
	return []*cobra.Command{
		tokenBalancesCmd(),
		historicalPortfolioCmd(),
		tokenTransfersCmd(),
		tokenHoldersCmd(),
		holderChangesCmd(),
		transactionsCmd(),
		transactionCmd(),
		blockCmd(),
		blockHeightsCmd(),
		logEventsByContractCmd(),
		logEventsByTopicCmd(),
		contractMetadataCmd(),
		chainsCmd(),
		chainStatusesCmd(),
	}
}

func requiredString(cmd *cobra.Command, p *string, name, usage string) {
	cmd.Flags().StringVar(p, name, "", usage)
	_ = cmd.MarkFlagRequired(name)
}

func blockRangeFlags(cmd *cobra.Command, starting, ending *string) {
	requiredString(cmd, starting, "starting-block", "the starting block")
	requiredString(cmd, ending, "ending-block", "the ending block")
}

func tokenBalancesCmd() *cobra.Command {
	var (
		addr string
		page pageFlags
	)
	cmd := &cobra.Command{
		Use:   "token-balances",
		Short: "Token balances for an address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetAddressBalancesReq{Address: addr, Pagination: page.pagination()}
			return printOne(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.Balances], error) {
				return apiClient.GetAddressBalances(ctx, req)
			})
		},
	}
	requiredString(cmd, &addr, "addr", "the wallet address")
	page.register(cmd, false)
	return cmd
}

func historicalPortfolioCmd() *cobra.Command {
	var (
		addr string
		page pageFlags
	)
	cmd := &cobra.Command{
		Use:   "historical-portfolio-value",
		Short: "Historical portfolio value for an address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetHistoricalPortfolioReq{Address: addr, Pagination: page.pagination()}
			return printPaged(cmd.Context(), cmd.OutOrStdout(), page.all,
				func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.HistoricalPortfolio], error) {
					return apiClient.GetHistoricalPortfolio(ctx, req)
				},
				func() *apiclient.Pager[apiclient.HistoricalPortfolio] { return apiClient.HistoricalPortfolioPages(req) })
		},
	}
	requiredString(cmd, &addr, "addr", "the wallet address")
	page.register(cmd, true)
	return cmd
}

func tokenTransfersCmd() *cobra.Command {
	var (
		addr, contract string
		page           pageFlags
	)
	cmd := &cobra.Command{
		Use:   "token-transfers",
		Short: "Token transfers of an address for one token contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetTokenTransfersReq{Address: addr, ContractAddress: contract, Pagination: page.pagination()}
			return printPaged(cmd.Context(), cmd.OutOrStdout(), page.all,
				func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.TokenTransfers], error) {
					return apiClient.GetTokenTransfers(ctx, req)
				},
				func() *apiclient.Pager[apiclient.TokenTransfers] { return apiClient.TokenTransfersPages(req) })
		},
	}
	requiredString(cmd, &addr, "addr", "the wallet address")
	requiredString(cmd, &contract, "contract-addr", "the contract or token address")
	page.register(cmd, true)
	return cmd
}

func tokenHoldersCmd() *cobra.Command {
	var (
		addr, height string
		page         pageFlags
	)
	cmd := &cobra.Command{
		Use:     "token-holders",
		Aliases: []string{"token-holders-any-bh"},
		Short:   "Token holders at any block height",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetTokenHoldersReq{TokenAddress: addr, BlockHeight: height, Pagination: page.pagination()}
			return printPaged(cmd.Context(), cmd.OutOrStdout(), page.all,
				func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.TokenHolders], error) {
					return apiClient.GetTokenHolders(ctx, req)
				},
				func() *apiclient.Pager[apiclient.TokenHolders] { return apiClient.TokenHoldersPages(req) })
		},
	}
	requiredString(cmd, &addr, "addr", "the token contract address")
	cmd.Flags().StringVar(&height, "block-height", "", "block height to read holders at (default latest)")
	page.register(cmd, true)
	return cmd
}

func holderChangesCmd() *cobra.Command {
	var (
		addr, starting, ending string
		page                   pageFlags
	)
	cmd := &cobra.Command{
		Use:   "changes-in-token-holders",
		Short: "Changes in token holders between two block heights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetTokenHolderChangesReq{
				TokenAddress:  addr,
				StartingBlock: starting,
				EndingBlock:   ending,
				Pagination:    page.pagination(),
			}
			return printPaged(cmd.Context(), cmd.OutOrStdout(), page.all,
				func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.TokenHolderChanges], error) {
					return apiClient.GetTokenHolderChanges(ctx, req)
				},
				func() *apiclient.Pager[apiclient.TokenHolderChanges] { return apiClient.TokenHolderChangesPages(req) })
		},
	}
	requiredString(cmd, &addr, "addr", "the token contract address")
	blockRangeFlags(cmd, &starting, &ending)
	page.register(cmd, true)
	return cmd
}

func transactionsCmd() *cobra.Command {
	var (
		addr string
		page pageFlags
	)
	cmd := &cobra.Command{
		Use:   "transactions-for-address",
		Short: "Transactions for an address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetTransactionsReq{Address: addr, Pagination: page.pagination()}
			return printPaged(cmd.Context(), cmd.OutOrStdout(), page.all,
				func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.Transactions], error) {
					return apiClient.GetTransactions(ctx, req)
				},
				func() *apiclient.Pager[apiclient.Transactions] { return apiClient.TransactionsPages(req) })
		},
	}
	requiredString(cmd, &addr, "addr", "the wallet address")
	page.register(cmd, true)
	return cmd
}

func transactionCmd() *cobra.Command {
	var (
		hash string
		page pageFlags
	)
	cmd := &cobra.Command{
		Use:   "transaction",
		Short: "A single transaction by hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetTransactionReq{TxHash: hash, Pagination: page.pagination()}
			return printOne(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.Transaction], error) {
				return apiClient.GetTransaction(ctx, req)
			})
		},
	}
	requiredString(cmd, &hash, "tx-hash", "the transaction hash")
	page.register(cmd, false)
	return cmd
}

func blockCmd() *cobra.Command {
	var (
		height string
		page   pageFlags
	)
	cmd := &cobra.Command{
		Use:   "block",
		Short: "A block by height",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetBlockReq{BlockHeight: height, Pagination: page.pagination()}
			return printOne(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.Blocks], error) {
				return apiClient.GetBlock(ctx, req)
			})
		},
	}
	requiredString(cmd, &height, "block-height", "the block height, or latest")
	page.register(cmd, false)
	return cmd
}

func blockHeightsCmd() *cobra.Command {
	var (
		start, end string
		page       pageFlags
	)
	cmd := &cobra.Command{
		Use:   "block-heights",
		Short: "Blocks signed between two dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetBlockHeightsReq{StartDate: start, EndDate: end, Pagination: page.pagination()}
			return printPaged(cmd.Context(), cmd.OutOrStdout(), page.all,
				func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.Blocks], error) {
					return apiClient.GetBlockHeights(ctx, req)
				},
				func() *apiclient.Pager[apiclient.Blocks] { return apiClient.BlockHeightsPages(req) })
		},
	}
	requiredString(cmd, &start, "start-date", "the start date in YYYY-MM-DD format")
	requiredString(cmd, &end, "end-date", "the end date in YYYY-MM-DD format")
	page.register(cmd, true)
	return cmd
}

func logEventsByContractCmd() *cobra.Command {
	var (
		contract, starting, ending string
		page                       pageFlags
	)
	cmd := &cobra.Command{
		Use:   "log-events-by-contract",
		Short: "Log events emitted by a contract between two block heights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetLogEventsByContractReq{
				ContractAddress: contract,
				StartingBlock:   starting,
				EndingBlock:     ending,
				Pagination:      page.pagination(),
			}
			return printPaged(cmd.Context(), cmd.OutOrStdout(), page.all,
				func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.LogEvents], error) {
					return apiClient.GetLogEventsByContract(ctx, req)
				},
				func() *apiclient.Pager[apiclient.LogEvents] { return apiClient.LogEventsByContractPages(req) })
		},
	}
	requiredString(cmd, &contract, "contract-addr", "the contract address")
	blockRangeFlags(cmd, &starting, &ending)
	page.register(cmd, true)
	return cmd
}

func logEventsByTopicCmd() *cobra.Command {
	var (
		topic, sender, starting, ending string
		page                            pageFlags
	)
	cmd := &cobra.Command{
		Use:   "log-events-by-topic-hashes",
		Short: "Log events by topic hashes between two block heights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetLogEventsByTopicReq{
				Topic:         topic,
				SenderAddress: sender,
				StartingBlock: starting,
				EndingBlock:   ending,
				Pagination:    page.pagination(),
			}
			return printPaged(cmd.Context(), cmd.OutOrStdout(), page.all,
				func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.LogEvents], error) {
					return apiClient.GetLogEventsByTopic(ctx, req)
				},
				func() *apiclient.Pager[apiclient.LogEvents] { return apiClient.LogEventsByTopicPages(req) })
		},
	}
	requiredString(cmd, &topic, "topic-hash", "the topic hash, comma-separated to provide multiple")
	cmd.Flags().StringVar(&sender, "sender-addr", "", "only events emitted by this address")
	blockRangeFlags(cmd, &starting, &ending)
	page.register(cmd, true)
	return cmd
}

func contractMetadataCmd() *cobra.Command {
	var page pageFlags
	cmd := &cobra.Command{
		Use:   "all-contract-metadata",
		Short: "Metadata of every token contract on the chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetContractMetadataReq{Pagination: page.pagination()}
			return printPaged(cmd.Context(), cmd.OutOrStdout(), page.all,
				func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.ContractMetadataList], error) {
					return apiClient.GetAllContractMetadata(ctx, req)
				},
				func() *apiclient.Pager[apiclient.ContractMetadataList] { return apiClient.ContractMetadataPages(req) })
		},
	}
	page.register(cmd, true)
	return cmd
}

func chainsCmd() *cobra.Command {
	var (
		quote string
		page  pageFlags
	)
	cmd := &cobra.Command{
		Use:   "all-chains",
		Short: "All chains supported by the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetChainsReq{QuoteCurrency: quote, Pagination: page.pagination()}
			return printOne(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.ChainList], error) {
				return apiClient.GetAllChains(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&quote, "quote-currency", "", "the quote currency (default from config, USD)")
	page.register(cmd, false)
	return cmd
}

func chainStatusesCmd() *cobra.Command {
	var (
		quote string
		page  pageFlags
	)
	cmd := &cobra.Command{
		Use:   "all-chain-statuses",
		Short: "Sync status of every chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := apiclient.GetChainsReq{QuoteCurrency: quote, Pagination: page.pagination()}
			return printOne(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) (*apiclient.ResourceEnvelope[apiclient.ChainStatusList], error) {
				return apiClient.GetAllChainStatuses(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&quote, "quote-currency", "", "the quote currency (default from config, USD)")
	page.register(cmd, false)
	return cmd
}
