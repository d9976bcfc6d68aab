package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	apiclient "sifter/api-client"
)

const (
	deadAddress = "0x000000000000000000000000000000000000dead"
	dateFormat  = "2006-01-02"
)

var (
	tokenAddress          string
	tokenChain            string
	minTokenQnt           int64
	minHoldingUSDValueStr string
	whaleThresholdStr     string
	date                  string
	resultsDir            string
	maxParallel           int
)

func init() {
	holdersPortfolio.Flags().StringVar(&tokenAddress, "token-address", "", "the token whose holders are analysed")
	_ = holdersPortfolio.MarkFlagRequired("token-address")

	holdersPortfolio.Flags().StringVar(&tokenChain, "token-chain", "", "chain of the token (default --chain-id)")
	holdersPortfolio.Flags().Int64Var(&minTokenQnt, "min-token-qnt", 100, "skip holders with fewer whole tokens")
	holdersPortfolio.Flags().StringVar(&minHoldingUSDValueStr, "min-holding-value", "100", "skip holdings quoted below this value")

	holdersPortfolio.Flags().StringVar(&whaleThresholdStr, "whale-threshold", "", "portfolio value from which a holder is a whale")
	_ = holdersPortfolio.MarkFlagRequired("whale-threshold")

	holdersPortfolio.Flags().StringVar(&date, "date", "", "read holders at the first block of this day (YYYY-MM-DD)")
	holdersPortfolio.Flags().StringVar(&resultsDir, "results-dir", "./results", "directory the CSV files are written to")
	holdersPortfolio.Flags().IntVar(&maxParallel, "parallel", 8, "holders processed at the same time")
}

// balancesGetter is the part of the client the per-holder step needs.
type balancesGetter interface {
	GetAddressBalances(ctx context.Context, req apiclient.GetAddressBalancesReq) (*apiclient.ResourceEnvelope[apiclient.Balances], error)
}

type whales struct {
	lock *sync.RWMutex
	list map[string]decimal.Decimal // address to portfolio value
}

type holdings struct {
	lock *sync.RWMutex
	list map[string]decimal.Decimal // token symbol to summed quote
}

func newHoldings() holdings {
	return holdings{lock: &sync.RWMutex{}, list: make(map[string]decimal.Decimal)}
}

type holderAnalysis struct {
	client          balancesGetter
	tokenAddress    string
	minTokenQnt     decimal.Decimal
	minHoldingValue decimal.Decimal
	whaleThreshold  decimal.Decimal
	whales          whales
}

var holdersPortfolio = &cobra.Command{
	Use:     "holders-portfolio",
	Aliases: []string{"balancesOfTokensHolders"},
	Short:   "Aggregate what the holders of a token also hold",
	Long: `Pages through the current holders of a token (or its holders at the
first block of --date), fetches every holder's balances on each configured
chain and writes two CSV files: the tokens held, ordered by summed quote, and
the holders whose portfolio value reaches --whale-threshold.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		minHoldingValue, err := decimal.NewFromString(minHoldingUSDValueStr)
		if err != nil {
			return errors.Wrapf(err, "error parsing minimal holding value %v", minHoldingUSDValueStr)
		}
		whaleThreshold, err := decimal.NewFromString(whaleThresholdStr)
		if err != nil {
			return errors.Wrapf(err, "error parsing whale threshold %v", whaleThresholdStr)
		}

		ctx := cmd.Context()
		chain := apiclient.Chain(tokenChain)
		if chain == "" {
			chain = apiclient.Chain(apiClient.ChainID())
		}

		var blockHeight string
		if date != "" {
			day, err := time.Parse(dateFormat, date)
			if err != nil {
				return errors.Wrapf(err, "error parsing date %v", date)
			}
			block, err := apiClient.GetBlockByDate(ctx, apiclient.GetBlockByDateReq{Chain: chain, Date: day})
			if err != nil {
				return errors.Wrap(err, "error retrieving block by date")
			}
			if block == nil {
				return errors.Errorf("no block found for %s", date)
			}
			logger.Info().Int64("block", *block).Str("date", date).Msg("resolved block by date")
			blockHeight = fmt.Sprint(*block)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Retrieving holders...")
		holders, err := collectHolders(ctx, apiClient.TokenHoldersPages(apiclient.GetTokenHoldersReq{
			Chain:        chain,
			TokenAddress: tokenAddress,
			BlockHeight:  blockHeight,
		}))
		if err != nil {
			return errors.Wrapf(err, "error retrieving token holders for address %v", tokenAddress)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Found %d holders\n", len(holders))
		if len(holders) == 0 {
			return nil
		}
		tokenSymbol := holders[0].ContractTickerSymbol

		analysis := &holderAnalysis{
			client:          apiClient,
			tokenAddress:    tokenAddress,
			minTokenQnt:     decimal.NewFromInt(minTokenQnt),
			minHoldingValue: minHoldingValue,
			whaleThreshold:  whaleThreshold,
			whales:          whales{lock: &sync.RWMutex{}, list: make(map[string]decimal.Decimal)},
		}

		chains := cfg.Chains
		if len(chains) == 0 {
			chains = []string{string(chain)}
		}
		for _, c := range chains {
			fmt.Fprintf(cmd.OutOrStdout(), "Processing %s chain...\n", c)
			found := analysis.processChain(ctx, apiclient.Chain(c), holders, maxParallel)

			path, err := saveFoundTokensInAFile(filepath.Join(resultsDir, "tokens"), tokenSymbol, c, found.list, time.Now())
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No tokens found for this chain")
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d tokens. Saved to %s\n", len(found.list), path)
		}

		path, err := saveFoundWhalesInAFile(filepath.Join(resultsDir, "whales"), analysis.whales.list, time.Now())
		if err != nil {
			return err
		}
		if path != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d whales. Saved to %s\n", len(analysis.whales.list), path)
		}
		return nil
	},
}

type holderPages interface {
	Next(ctx context.Context) bool
	Envelope() *apiclient.ResourceEnvelope[apiclient.TokenHolders]
	Err() error
}

func collectHolders(ctx context.Context, pages holderPages) ([]*apiclient.TokenHolder, error) {
	var holders []*apiclient.TokenHolder
	for pages.Next(ctx) {
		env := pages.Envelope()
		if err := env.Err(); err != nil {
			return nil, err
		}
		holders = append(holders, env.Data.Items...)
	}
	if err := pages.Err(); err != nil {
		return nil, err
	}
	return holders, nil
}

// processChain fetches the balances of every holder worth looking at on chain,
// at most parallel at a time, and returns the holdings found there.
func (a *holderAnalysis) processChain(ctx context.Context, chain apiclient.Chain, holders []*apiclient.TokenHolder, parallel int) holdings {
	if parallel < 1 {
		parallel = 1
	}
	found := newHoldings()
	sem := make(chan struct{}, parallel)

	var wg sync.WaitGroup
	for _, holder := range holders {
		if a.shouldSkipHolder(holder) {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		holderAddress := holder.Address

		go func() {
			defer func() {
				<-sem
				wg.Done()
			}()
			a.processHolder(ctx, holderAddress, chain, found)
		}()
	}
	wg.Wait()
	return found
}

func (a *holderAnalysis) processHolder(ctx context.Context, holderAddress string, chain apiclient.Chain, found holdings) {
	env, err := a.client.GetAddressBalances(ctx, apiclient.GetAddressBalancesReq{
		Chain:   chain,
		Address: holderAddress,
	})
	if err == nil {
		err = env.Err()
	}
	if err != nil {
		logger.Warn().Err(err).
			Str("chain", string(chain)).
			Str("address", holderAddress).
			Msg("error retrieving balances")
		return
	}

	portfolioValue := decimal.Zero
	for _, balance := range env.Data.Items {
		if balance == nil {
			continue
		}
		quote := decimal.Zero
		if balance.Quote.Valid {
			quote = balance.Quote.Decimal
		}
		portfolioValue = portfolioValue.Add(quote)

		if a.shouldSkipBalance(balance) {
			continue
		}
		if quote.LessThan(a.minHoldingValue) {
			continue
		}

		found.lock.Lock()
		found.list[balance.ContractTickerSymbol] = found.list[balance.ContractTickerSymbol].Add(quote)
		found.lock.Unlock()
	}

	if !portfolioValue.LessThan(a.whaleThreshold) {
		a.whales.lock.Lock()
		a.whales.list[holderAddress] = a.whales.list[holderAddress].Add(portfolioValue)
		a.whales.lock.Unlock()
	}
}

func (a *holderAnalysis) shouldSkipBalance(balance *apiclient.BalanceItem) bool {
	return strings.EqualFold(balance.ContractAddress, a.tokenAddress) || balance.BalanceType == "dust"
}

// shouldSkipHolder drops the burn address and holders of fewer than
// minTokenQnt whole tokens.
func (a *holderAnalysis) shouldSkipHolder(holder *apiclient.TokenHolder) bool {
	if holder == nil || strings.EqualFold(holder.Address, deadAddress) {
		return true
	}
	whole := holder.Balance.Shift(-int32(holder.ContractDecimals))
	return whole.LessThan(a.minTokenQnt)
}

func saveFoundWhalesInAFile(dir string, found map[string]decimal.Decimal, now time.Time) (string, error) {
	if len(found) == 0 {
		return "", nil
	}

	addresses := make([]string, 0, len(found))
	for address := range found {
		addresses = append(addresses, address)
	}
	sort.SliceStable(addresses, func(i, j int) bool {
		return found[addresses[i]].Cmp(found[addresses[j]]) > 0
	})

	rows := [][]string{{"address", "portfolio value"}}
	for _, address := range addresses {
		rows = append(rows, []string{address, shortValue(found[address])})
	}
	return writeCSV(dir, fmt.Sprintf("whales_%s.csv", now.Format(dateFormat)), rows)
}

func saveFoundTokensInAFile(dir, tokenSymbol, chain string, tokens map[string]decimal.Decimal, now time.Time) (string, error) {
	if len(tokens) == 0 {
		return "", nil
	}

	// sort tokens by quote in descending order
	keys := make([]string, 0, len(tokens))
	for key := range tokens {
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return tokens[keys[i]].Cmp(tokens[keys[j]]) > 0
	})

	rows := [][]string{{"symbol", "quote"}}
	for _, k := range keys {
		rows = append(rows, []string{k, tokens[k].StringFixed(2)})
	}
	return writeCSV(dir, fmt.Sprintf("tokens_%s_%s_%s.csv", tokenSymbol, chain, now.Format(dateFormat)), rows)
}

func writeCSV(dir, filename string, rows [][]string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create directory %s", dir)
	}
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to create file")
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return "", errors.Wrapf(err, "error writing csv file %s", path)
	}

	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "error closing csv file")
	}
	return path, nil
}

func shortValue(value decimal.Decimal) string {
	million := decimal.NewFromInt(1000000)
	thousand := decimal.NewFromInt(1000)
	one := decimal.NewFromInt(1)

	valueDivdByMillion := value.Div(million)
	if !valueDivdByMillion.LessThan(one) {
		return valueDivdByMillion.RoundCash(100).String() + "M"
	}
	return value.Div(thousand).RoundCash(100).String() + "K"
}
