package apiclient

// fieldAlias renames a wire field before decoding. Path is the chain of object
// keys from the data object to the objects holding the field; arrays met on
// the way are walked element by element.
type fieldAlias struct {
	Path []string
	From string
	To   string
}

// fieldExclusion drops a wire field whose type varies between responses.
type fieldExclusion struct {
	Path  []string
	Field string
}

// variant is the decode rule set of one resource shape.
type variant struct {
	Name     string
	Required []string // keys of the data object required on a successful response
	Aliases  []fieldAlias
	Excluded []fieldExclusion
}

var (
	logEventParamValue = fieldExclusion{Path: []string{"items", "decoded", "params"}, Field: "value"}
	txLogEventValue    = fieldExclusion{Path: []string{"items", "log_events", "decoded", "params"}, Field: "value"}
)

var (
	balancesVariant = variant{
		Name:     "balances",
		Required: []string{"address", "items"},
		Aliases:  []fieldAlias{{Path: []string{"items"}, From: "type", To: "balance_type"}},
	}
	portfolioVariant = variant{
		Name:     "historical_portfolio",
		Required: []string{"address", "items"},
	}
	transfersVariant = variant{
		Name:     "token_transfers",
		Required: []string{"address", "items"},
	}
	tokenHoldersVariant = variant{
		Name:     "token_holders",
		Required: []string{"items"},
	}
	tokenHolderChangesVariant = variant{
		Name:     "token_holder_changes",
		Required: []string{"items"},
	}
	transactionsVariant = variant{
		Name:     "transactions",
		Required: []string{"address", "items"},
		Excluded: []fieldExclusion{txLogEventValue},
	}
	transactionVariant = variant{
		Name:     "transaction",
		Required: []string{"items"},
		Excluded: []fieldExclusion{txLogEventValue},
	}
	blockVariant = variant{
		Name:     "block",
		Required: []string{"items"},
	}
	blockHeightsVariant = variant{
		Name:     "block_heights",
		Required: []string{"items"},
	}
	logEventsByContractVariant = variant{
		Name:     "log_events_by_contract",
		Required: []string{"items"},
		Excluded: []fieldExclusion{logEventParamValue},
	}
	logEventsByTopicVariant = variant{
		Name:     "log_events_by_topic",
		Required: []string{"items"},
		Excluded: []fieldExclusion{logEventParamValue},
	}
	contractMetadataVariant = variant{
		Name:     "contract_metadata",
		Required: []string{"items"},
	}
	chainsVariant = variant{
		Name:     "chains",
		Required: []string{"items"},
	}
	chainStatusesVariant = variant{
		Name:     "chain_statuses",
		Required: []string{"items"},
	}
)

// apply rewrites data in place according to the variant's aliases and
// exclusions.
func (v variant) apply(data map[string]interface{}) {
	for _, a := range v.Aliases {
		a := a
		walkObjects(data, a.Path, func(obj map[string]interface{}) {
			val, ok := obj[a.From]
			if !ok {
				return
			}
			if _, taken := obj[a.To]; !taken {
				obj[a.To] = val
			}
			delete(obj, a.From)
		})
	}
	for _, x := range v.Excluded {
		x := x
		walkObjects(data, x.Path, func(obj map[string]interface{}) {
			delete(obj, x.Field)
		})
	}
}

// walkObjects calls fn on every object reached by following path from node.
// Arrays are expanded at any depth, including arrays of arrays.
func walkObjects(node interface{}, path []string, fn func(map[string]interface{})) {
	switch n := node.(type) {
	case []interface{}:
		for _, el := range n {
			walkObjects(el, path, fn)
		}
	case map[string]interface{}:
		if len(path) == 0 {
			fn(n)
			return
		}
		if next, ok := n[path[0]]; ok {
			walkObjects(next, path[1:], fn)
		}
	}
}
